package auth

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdesk/prepdesk/internal/auth/jwt"
	"github.com/prepdesk/prepdesk/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	files, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewService(NewUserStore(files), ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			Secret: []byte("test-secret"),
			TTL:    time.Hour,
		},
		AdminPassword: "admin123",
	}, zerolog.Nop())
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.True(t, len(hash) > 20) // bcrypt hashes are long
}

func TestVerifyPassword(t *testing.T) {
	hash, _ := HashPassword("testpassword123")

	assert.NoError(t, VerifyPassword(hash, "testpassword123"))
	assert.Error(t, VerifyPassword(hash, "wrongpassword"))
}

func TestPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Signup("alice", "secret123", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.False(t, claims.IsAdmin)

	token, err = svc.Login("alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Signup("", "secret123", "secret123")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Signup("alice", "secret123", "different")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Signup("alice", "secret123", "secret123")
	require.NoError(t, err)

	_, err = svc.Signup("alice", "other1234", "other1234")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAdminLogin(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.AdminLogin("admin123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)

	_, err = svc.AdminLogin("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateBadToken(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
