// Package auth_test contains tests for password hashing and token handling
package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-management-platform/internal/services/auth"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, auth.VerifyPassword("s3cret-password", hash))
	assert.False(t, auth.VerifyPassword("wrong-password", hash))
	assert.False(t, auth.VerifyPassword("s3cret-password", "not-a-hash"))
}

func TestTokenIssueAndVerify(t *testing.T) {
	svc, err := auth.NewTokenService("test-secret", 60)
	require.NoError(t, err)

	token, err := svc.Issue(42, "customer@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.CustomerID)
	assert.Equal(t, "customer@example.com", claims.Email)
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := auth.NewTokenService("secret-a", 60)
	require.NoError(t, err)
	verifier, err := auth.NewTokenService("secret-b", 60)
	require.NoError(t, err)

	token, err := issuer.Issue(1, "a@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	svc, err := auth.NewTokenService("test-secret", 60)
	require.NoError(t, err)

	_, err = svc.Verify("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := auth.NewTokenService("", 60)
	assert.ErrorIs(t, err, auth.ErrMissingSecret)
}
