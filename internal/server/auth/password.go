package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yeslist/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces and checks bcrypt password hashes. The hash string
// carries the algorithm version, cost and salt, so verification needs no
// extra parameters.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a hasher using the given bcrypt cost.
// Pass bcrypt.DefaultCost in production.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("yeslist-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt setup: %w", err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// Hash returns the salted one-way hash of password. The password slice is
// wiped before returning.
func (h *PasswordHasher) Hash(password []byte) (string, error) {
	defer common.WipeByteArray(password)

	hash, err := bcrypt.GenerateFromPassword(password, h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks password against hash in constant time.
// It returns common.ErrInvalidCredentials on mismatch.
func (h *PasswordHasher) Compare(hash string, password []byte) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return common.ErrInvalidCredentials
	default:
		return fmt.Errorf("compare password hash: %w", err)
	}
}

// CompareDummy spends the same work as Compare against a fixed hash. Used
// when the account does not exist so response time does not reveal it.
func (h *PasswordHasher) CompareDummy(password []byte) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, password)
}
