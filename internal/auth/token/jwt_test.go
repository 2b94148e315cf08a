package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/pointsale/internal/auth/domain"
	"github.com/smallbiznis/pointsale/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T, secret string) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(config.Config{AuthJWTSecret: secret, AuthTokenTTL: time.Hour})
	require.NoError(t, err)
	return issuer
}

func TestIssueAndParse(t *testing.T) {
	issuer := newIssuer(t, "test-secret")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	raw, expiresAt, err := issuer.Issue(domain.Identity{Username: "alice", Role: domain.RoleCustomer}, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	identity, err := issuer.Parse(raw, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, domain.RoleCustomer, identity.Role)
}

func TestParseExpired(t *testing.T) {
	issuer := newIssuer(t, "test-secret")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	raw, _, err := issuer.Issue(domain.Identity{Username: "alice", Role: domain.RoleCustomer}, now)
	require.NoError(t, err)

	_, err = issuer.Parse(raw, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	now := time.Now()
	raw, _, err := newIssuer(t, "other-secret").Issue(domain.Identity{Username: "alice", Role: domain.RoleOwner}, now)
	require.NoError(t, err)

	_, err = newIssuer(t, "test-secret").Parse(raw, now)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: "root",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "mallory",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	raw, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newIssuer(t, "test-secret").Parse(raw, now)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer(config.Config{})
	assert.Error(t, err)
}
