package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open connects to the database named by dsn, runs migrations and returns
// the connection with a matching RepositoryManager.
//
// postgres:// and postgresql:// URLs use pgx. sqlite://path, file: URIs and
// ":memory:" use modernc sqlite, limited to a single connection so that
// in-memory databases are shared and writers do not contend.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	driver, source, m, err := resolve(dsn)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, m, nil
}

func resolve(dsn string) (driver, source string, m RepositoryManager, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx", dsn, NewPostgresRepositoryManager(), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", withForeignKeys(strings.TrimPrefix(dsn, "sqlite://")), NewSQLiteRepositoryManager(), nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return "sqlite", withForeignKeys(dsn), NewSQLiteRepositoryManager(), nil
	default:
		return "", "", nil, fmt.Errorf("unsupported database dsn %q", redact(dsn))
	}
}

func withForeignKeys(source string) string {
	if strings.Contains(source, "foreign_keys") {
		return source
	}
	sep := "?"
	if strings.Contains(source, "?") {
		sep = "&"
	}
	return source + sep + "_pragma=foreign_keys(1)"
}

// redact hides everything after the scheme, which may contain credentials.
func redact(dsn string) string {
	if scheme, _, ok := strings.Cut(dsn, "://"); ok {
		return scheme + "://..."
	}
	return "..."
}
