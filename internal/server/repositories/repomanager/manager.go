package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophmember/internal/dbx"
	"github.com/dmitrijs2005/gophmember/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories bound to a DB handle or a transaction
// and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
