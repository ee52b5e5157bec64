package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueVerify(t *testing.T) {
	tokens := NewTokenService("secret", 24*time.Hour)

	token, err := tokens.Issue("admin@x.com")
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", claims.Email)
	assert.Equal(t, int64(24*60*60), claims.ExpiresAt-claims.IssuedAt)
}

func TestTokenService_Tampered(t *testing.T) {
	tokens := NewTokenService("secret", 24*time.Hour)
	token, err := tokens.Issue("admin@x.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tokens.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := NewTokenService("other", time.Hour).Issue("admin@x.com")
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Expired(t *testing.T) {
	tokens := NewTokenService("secret", 24*time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }

	token, err := tokens.Issue("admin@x.com")
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Absent(t *testing.T) {
	_, err := NewTokenService("secret", time.Hour).Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = NewTokenService("secret", time.Hour).Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
