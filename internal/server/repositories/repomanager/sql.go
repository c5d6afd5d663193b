// Package repomanager wires repository constructors to a database dialect
// and runs the embedded goose migrations for it.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/yeslist/internal/dbx"
	"github.com/dmitrijs2005/yeslist/internal/server/migrations"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/tasks"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager serves both PostgreSQL and SQLite: the repository
// SQL is shared, only the goose dialect and migration directory differ.
type SQLRepositoryManager struct {
	dialect string
	dir     string
}

// NewPostgresRepositoryManager returns a manager for the pgx driver.
func NewPostgresRepositoryManager() *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: "pgx", dir: migrations.PostgresDir}
}

// NewSQLiteRepositoryManager returns a manager for the modernc sqlite driver.
func NewSQLiteRepositoryManager() *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: "sqlite3", dir: migrations.SQLiteDir}
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// Tasks returns a tasks.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, m.dir); err != nil {
		return fmt.Errorf("migrate %s: %w", m.dir, err)
	}
	return nil
}
