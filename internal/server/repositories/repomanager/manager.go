package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/yeslist/internal/dbx"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/tasks"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx and
// owns schema migrations for its dialect.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
