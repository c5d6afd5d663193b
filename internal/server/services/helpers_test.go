package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/yeslist/internal/dbx"
	"github.com/dmitrijs2005/yeslist/internal/server/auth"
	"github.com/dmitrijs2005/yeslist/internal/server/models"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/tasks"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newHasher(t *testing.T) *auth.PasswordHasher {
	t.Helper()
	h, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func newTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	m, err := auth.NewTokenManager(auth.TokenConfig{
		SecretKey:        testKey,
		Issuer:           "YesList",
		Audience:         "YesUsers",
		ValidityDuration: time.Hour,
	})
	require.NoError(t, err)
	return m
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// openSQLite returns a migrated in-memory database private to the test.
func openSQLite(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, m, err := repomanager.Open(context.Background(), "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, m
}

type fakeAccountsRepo struct {
	createErr error
	getOut    *models.Account
	getErr    error

	created *models.Account
	lookups []string
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = "acc-1"
	f.created = a
	return a, nil
}

func (f *fakeAccountsRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	f.lookups = append(f.lookups, email)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeTasksRepo struct {
	getOut *models.Task
	getErr error
	err    error

	updated *models.Task
	deleted []string
}

func (f *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	t.ID = "00000000-0000-0000-0000-000000000001"
	return t, nil
}

func (f *fakeTasksRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Task{}, nil
}

func (f *fakeTasksRepo) Get(ctx context.Context, id string) (*models.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, t *models.Task) error {
	if f.err != nil {
		return f.err
	}
	f.updated = t
	return nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id, ownerID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id+"/"+ownerID)
	return nil
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return m.a }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository              { return m.t }
