package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophmember/internal/server/models"
)

// Repository is the Account Store boundary. Emails passed in must already
// be normalized.
type Repository interface {
	// FindByEmail returns common.ErrorNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// FindByEmailForUpdate is FindByEmail with a row lock; use inside a tx.
	FindByEmailForUpdate(ctx context.Context, email string) (*models.Account, error)
	// Create returns common.ErrUniqueViolation when the email is taken.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	// Update persists mutable fields and refreshes UpdatedAt.
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	// Stats counts non-admin accounts relative to now.
	Stats(ctx context.Context, now time.Time) (*models.AccountStats, error)
}
