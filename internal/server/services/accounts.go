// Package services contains server-side business logic. AccountService
// registers accounts and turns verified credentials into access tokens;
// TaskService applies the ownership rules to task operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/yeslist/internal/common"
	"github.com/dmitrijs2005/yeslist/internal/server/auth"
	"github.com/dmitrijs2005/yeslist/internal/server/models"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/repomanager"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLength = 72
)

// AccountService implements registration, credential verification and login.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenManager
	now         func() time.Time
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenManager) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		now:         time.Now,
	}
}

// NormalizeEmail trims and lower-cases email. Stored emails are always in
// this form, which makes lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input and creates an account. A taken email yields
// common.ErrEmailTaken, invalid input a *common.ValidationError.
func (s *AccountService) Register(ctx context.Context, email, password string) (*models.Account, error) {
	email = NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.Create(ctx, &models.Account{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return account, nil
}

// Verify returns the account matching email and password. Unknown email and
// wrong password both produce common.ErrInvalidCredentials after comparable
// hashing work.
func (s *AccountService) Verify(ctx context.Context, email, password string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy([]byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, []byte(password)); err != nil {
		return nil, err
	}
	return account, nil
}

// Login verifies credentials and issues an access token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*auth.SignedToken, error) {
	account, err := s.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.tokens.Issue(account.ID, account.Email, s.now())
}

func validateCredentials(email, password string) error {
	verr := &common.ValidationError{}

	if email == "" {
		verr.Add("email", "email is required")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		verr.Add("email", "email is not a valid address")
	}

	switch {
	case password == "":
		verr.Add("password", "password is required")
	case len(password) < MinPasswordLength:
		verr.Add("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	case len(password) > MaxPasswordLength:
		verr.Add("password", fmt.Sprintf("password must be at most %d bytes", MaxPasswordLength))
	}

	return verr.OrNil()
}
