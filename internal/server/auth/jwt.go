// Package auth issues and validates bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/yeslist/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinKeyLength is the shortest HMAC key NewTokenManager accepts, in bytes.
const MinKeyLength = 32

// Claims is the claim set carried by an access token. Subject holds the
// account id and ID (jti) a random per-token identifier.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Identity is what a valid token proves about its bearer.
type Identity struct {
	UserID  string
	Email   string
	TokenID string
}

// SignedToken is an encoded token together with its expiry.
type SignedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenConfig is process-wide token configuration.
type TokenConfig struct {
	SecretKey        []byte
	Issuer           string
	Audience         string
	ValidityDuration time.Duration
	ClockSkew        time.Duration
}

// TokenManager signs and validates HS256 access tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenManager struct {
	key      []byte
	issuer   string
	audience string
	validity time.Duration
	leeway   time.Duration
}

// NewTokenManager validates cfg and returns a TokenManager.
// A misconfiguration here is meant to stop the process at startup.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if len(cfg.SecretKey) < MinKeyLength {
		return nil, fmt.Errorf("secret key must be at least %d bytes, got %d", MinKeyLength, len(cfg.SecretKey))
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("token issuer and audience must be set")
	}
	if cfg.ValidityDuration <= 0 {
		return nil, fmt.Errorf("token validity duration must be positive, got %s", cfg.ValidityDuration)
	}
	if cfg.ClockSkew < 0 {
		return nil, fmt.Errorf("token clock skew must not be negative, got %s", cfg.ClockSkew)
	}

	key := make([]byte, len(cfg.SecretKey))
	copy(key, cfg.SecretKey)

	return &TokenManager{
		key:      key,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		validity: cfg.ValidityDuration,
		leeway:   cfg.ClockSkew,
	}, nil
}

// Issue signs a token for the given account, valid from now for the
// configured duration. Every call yields a distinct jti.
func (m *TokenManager) Issue(userID, email string, now time.Time) (*SignedToken, error) {
	issuedAt := jwt.NewNumericDate(now)
	expiresAt := jwt.NewNumericDate(issuedAt.Add(m.validity))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
		Email: email,
	})

	s, err := token.SignedString(m.key)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &SignedToken{Token: s, ExpiresAt: expiresAt.Time}, nil
}

// Validate checks token at time now and returns the identity it carries.
//
// The signature over header and payload is verified before any claim is
// looked at, so a tampered payload always yields ErrTokenSignatureInvalid.
// Errors wrap one of the common.ErrToken* values.
func (m *TokenManager) Validate(token string, now time.Time) (*Identity, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, common.ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.leeway),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	sig, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, m.key); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenSignatureInvalid, err)
	}

	claims := &Claims{}
	_, err = parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing sub or jti", common.ErrTokenMalformed)
	}

	return &Identity{UserID: claims.Subject, Email: claims.Email, TokenID: claims.ID}, nil
}

func classify(err error) error {
	var kind error
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		kind = common.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		kind = common.ErrTokenClaimsMismatch
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		kind = common.ErrTokenExpired
	default:
		kind = common.ErrTokenMalformed
	}
	return fmt.Errorf("%w: %v", kind, err)
}
