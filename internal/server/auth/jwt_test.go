package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/yeslist/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newManager(t *testing.T, mutate ...func(*TokenConfig)) *TokenManager {
	t.Helper()
	cfg := TokenConfig{
		SecretKey:        testKey,
		Issuer:           "YesList",
		Audience:         "YesUsers",
		ValidityDuration: time.Hour,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	m, err := NewTokenManager(cfg)
	require.NoError(t, err)
	return m
}

func TestNewTokenManager_RejectsMisconfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  TokenConfig
	}{
		{name: "missing key", cfg: TokenConfig{Issuer: "i", Audience: "a", ValidityDuration: time.Hour}},
		{name: "short key", cfg: TokenConfig{SecretKey: []byte("short"), Issuer: "i", Audience: "a", ValidityDuration: time.Hour}},
		{name: "zero duration", cfg: TokenConfig{SecretKey: testKey, Issuer: "i", Audience: "a"}},
		{name: "negative skew", cfg: TokenConfig{SecretKey: testKey, Issuer: "i", Audience: "a", ValidityDuration: time.Hour, ClockSkew: -time.Second}},
		{name: "no issuer", cfg: TokenConfig{SecretKey: testKey, Audience: "a", ValidityDuration: time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenManager(tt.cfg)
			require.Error(t, err)
		})
	}
}

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tok, err := m.Issue("user-123", "alice@example.com", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), tok.ExpiresAt)

	id, err := m.Validate(tok.Token, now)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.UserID)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.NotEmpty(t, id.TokenID)
}

func TestIssue_DistinctTokenIDs(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	now := time.Now()

	a, err := m.Issue("u", "u@example.com", now)
	require.NoError(t, err)
	b, err := m.Issue("u", "u@example.com", now)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)

	ida, err := m.Validate(a.Token, now)
	require.NoError(t, err)
	idb, err := m.Validate(b.Token, now)
	require.NoError(t, err)
	assert.NotEqual(t, ida.TokenID, idb.TokenID)
}

func TestValidate_ExpiryWindow(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := m.Issue("u1", "u1@example.com", now)
	require.NoError(t, err)

	_, err = m.Validate(tok.Token, tok.ExpiresAt.Add(-time.Second))
	require.NoError(t, err)

	_, err = m.Validate(tok.Token, tok.ExpiresAt)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	_, err = m.Validate(tok.Token, tok.ExpiresAt.Add(time.Hour))
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	_, err = m.Validate(tok.Token, now.Add(-time.Second))
	assert.ErrorIs(t, err, common.ErrTokenExpired, "used before issued")
}

func TestValidate_ClockSkew(t *testing.T) {
	t.Parallel()

	m := newManager(t, func(c *TokenConfig) { c.ClockSkew = 30 * time.Second })
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := m.Issue("u1", "u1@example.com", now)
	require.NoError(t, err)

	_, err = m.Validate(tok.Token, tok.ExpiresAt.Add(10*time.Second))
	require.NoError(t, err)

	_, err = m.Validate(tok.Token, tok.ExpiresAt.Add(31*time.Second))
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestValidate_TamperedPayload(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	now := time.Now()
	tok, err := m.Issue("u1", "u1@example.com", now)
	require.NoError(t, err)

	parts := strings.Split(tok.Token, ".")
	payload := []byte(parts[1])
	for i := range payload {
		tampered := make([]byte, len(payload))
		copy(tampered, payload)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		bad := parts[0] + "." + string(tampered) + "." + parts[2]

		_, err := m.Validate(bad, now)
		require.ErrorIs(t, err, common.ErrTokenSignatureInvalid, "byte %d", i)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	other := newManager(t, func(c *TokenConfig) { c.SecretKey = []byte("ffffffffffffffffffffffffffffffff") })
	tok, err := other.Issue("u2", "u2@example.com", time.Now())
	require.NoError(t, err)

	_, err = newManager(t).Validate(tok.Token, time.Now())
	assert.ErrorIs(t, err, common.ErrTokenSignatureInvalid)
}

func TestValidate_IssuerAudienceMismatch(t *testing.T) {
	t.Parallel()

	now := time.Now()
	validator := newManager(t)

	wrongIssuer := newManager(t, func(c *TokenConfig) { c.Issuer = "SomeoneElse" })
	tok, err := wrongIssuer.Issue("u", "u@example.com", now)
	require.NoError(t, err)
	_, err = validator.Validate(tok.Token, now)
	assert.ErrorIs(t, err, common.ErrTokenClaimsMismatch)

	wrongAudience := newManager(t, func(c *TokenConfig) { c.Audience = "Others" })
	tok, err = wrongAudience.Issue("u", "u@example.com", now)
	require.NoError(t, err)
	_, err = validator.Validate(tok.Token, now)
	assert.ErrorIs(t, err, common.ErrTokenClaimsMismatch)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	for _, s := range []string{"", "not-a-jwt", "a.b", "a.b.c.d", "e30.e30.!!!"} {
		_, err := m.Validate(s, time.Now())
		assert.ErrorIs(t, err, common.ErrTokenMalformed, s)
		assert.ErrorIs(t, err, common.ErrorUnauthorized, s)
	}
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID: "j", Subject: "u", Issuer: "YesList", Audience: jwt.ClaimStrings{"YesUsers"},
		IssuedAt: jwt.NewNumericDate(now), ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}}

	// alg=none: empty signature never matches the HMAC.
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = newManager(t).Validate(none, now)
	assert.ErrorIs(t, err, common.ErrTokenSignatureInvalid)

	// A valid HS256 MAC under a header that claims HS512.
	header, err := json.Marshal(map[string]string{"alg": "HS512", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	signing := base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(payload)
	sig, err := jwt.SigningMethodHS256.Sign(signing, testKey)
	require.NoError(t, err)

	_, err = newManager(t).Validate(signing+"."+base64.RawURLEncoding.EncodeToString(sig), now)
	assert.ErrorIs(t, err, common.ErrTokenSignatureInvalid)
}

func TestValidate_MissingExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID: "j", Subject: "u", Issuer: "YesList", Audience: jwt.ClaimStrings{"YesUsers"},
		IssuedAt: jwt.NewNumericDate(now),
	}}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = newManager(t).Validate(s, now)
	assert.ErrorIs(t, err, common.ErrTokenMalformed)
}
