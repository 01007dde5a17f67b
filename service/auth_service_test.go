package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceIssueAndVerify(t *testing.T) {
	svc, err := NewAuthService("test-secret")
	require.NoError(t, err)

	userID := uuid.New()
	token, expiresAt, err := svc.IssueToken(userID, "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	parsed, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestAuthServiceRejectsWrongSecret(t *testing.T) {
	issuer, err := NewAuthService("secret-a")
	require.NoError(t, err)
	verifier, err := NewAuthService("secret-b")
	require.NoError(t, err)

	token, _, err := issuer.IssueToken(uuid.New(), "test@example.com")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc, err := NewAuthService("test-secret", WithTokenTTL(-time.Minute))
	require.NoError(t, err)

	token, _, err := svc.IssueToken(uuid.New(), "test@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceRejectsGarbage(t *testing.T) {
	svc, err := NewAuthService("test-secret")
	require.NoError(t, err)

	_, err = svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService("")
	assert.Error(t, err)
}
