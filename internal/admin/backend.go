package admin

import (
	"context"

	"github.com/dmitrijs2005/gophmember/internal/cryptox"
	"github.com/dmitrijs2005/gophmember/internal/logging"
	"github.com/dmitrijs2005/gophmember/internal/server/config"
	"github.com/dmitrijs2005/gophmember/internal/server/events"
	"github.com/dmitrijs2005/gophmember/internal/server/models"
	"github.com/dmitrijs2005/gophmember/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophmember/internal/server/services"
)

// Provisioner is the part of services.AccountService the CLI drives.
type Provisioner interface {
	EnsureAdmin(ctx context.Context, spec services.AdminSpec) (*services.EnsureAdminResult, error)
	VerifyBootstrap(ctx context.Context, email, expectedSecret string) (*models.BootstrapReport, error)
}

// Backend is what the store-touching commands work against.
type Backend struct {
	Accounts Provisioner
	Migrate  func(ctx context.Context) error
	Close    func() error
}

// Connector opens a Backend on demand, so commands that do not need the
// store never dial it.
type Connector func(ctx context.Context) (*Backend, error)

// nopSubmitter discards events: the bootstrap never registers members.
type nopSubmitter struct{}

func (nopSubmitter) Submit(events.NewAccountEvent) bool { return false }

// PostgresConnector opens the configured database and builds the account
// service over it.
func PostgresConnector(cfg *config.Config, h cryptox.Hasher, l logging.Logger) Connector {
	return func(ctx context.Context) (*Backend, error) {
		db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		rm := repomanager.NewPostgresRepositoryManager()
		svc := services.NewAccountService(db, rm, h, nopSubmitter{}, l, services.ServiceConfigFrom(cfg))

		return &Backend{
			Accounts: svc,
			Migrate: func(ctx context.Context) error {
				return rm.RunMigrations(ctx, db)
			},
			Close: db.Close,
		}, nil
	}
}
