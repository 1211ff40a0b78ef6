// Package accounts implements the Account Store on PostgreSQL.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmember/internal/common"
	"github.com/dmitrijs2005/gophmember/internal/dbx"
	"github.com/dmitrijs2005/gophmember/internal/server/models"
	"github.com/google/uuid"
)

const selectAccount = `SELECT id, display_name, email, credential_hash, is_active, is_admin,
		total_points, shares_count, created_at, updated_at
		FROM accounts
		WHERE email = $1`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(ctx, selectAccount, email)
}

func (r *PostgresRepository) FindByEmailForUpdate(ctx context.Context, email string) (*models.Account, error) {
	return r.find(ctx, selectAccount+` FOR UPDATE`, email)
}

func (r *PostgresRepository) find(ctx context.Context, query string, email string) (*models.Account, error) {
	var (
		a    models.Account
		hash sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&a.ID, &a.DisplayName, &a.Email, &hash, &a.IsActive, &a.IsAdmin,
		&a.TotalPoints, &a.SharesCount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapErr(err)
	}

	if hash.Valid {
		a.CredentialHash = &hash.String
	}

	return &a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, display_name, email, credential_hash, is_active, is_admin, total_points, shares_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at
		 `

	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.DisplayName, account.Email, nullableHash(account.CredentialHash),
		account.IsActive, account.IsAdmin, account.TotalPoints, account.SharesCount,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}

	return account, nil
}

func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET display_name = $2, credential_hash = $3, is_active = $4, is_admin = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.DisplayName, nullableHash(account.CredentialHash), account.IsActive, account.IsAdmin,
	).Scan(&account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapErr(err)
	}

	return account, nil
}

func (r *PostgresRepository) Stats(ctx context.Context, now time.Time) (*models.AccountStats, error) {
	query :=
		`SELECT
		   COUNT(*) FILTER (WHERE NOT is_admin),
		   COUNT(*) FILTER (WHERE NOT is_admin AND created_at >= $1),
		   COUNT(*) FILTER (WHERE NOT is_admin AND created_at >= $2)
		 FROM accounts
		 `

	var s models.AccountStats
	err := r.db.QueryRowContext(ctx, query, now.Add(-24*time.Hour), now.Add(-7*24*time.Hour)).
		Scan(&s.TotalRegular, &s.RegularLast24h, &s.RegularLastWeek)
	if err != nil {
		return nil, wrapErr(err)
	}

	return &s, nil
}

func nullableHash(h *string) sql.NullString {
	if h == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *h, Valid: true}
}

// wrapErr tags driver errors with the store-level sentinel they map to.
func wrapErr(err error) error {
	switch {
	case dbx.IsUniqueViolation(err):
		return fmt.Errorf("%w: %w", common.ErrUniqueViolation, err)
	case dbx.IsUnavailable(err):
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
