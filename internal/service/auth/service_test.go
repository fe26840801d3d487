package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmovs/decanting/internal/repository"
	"github.com/farmovs/decanting/internal/repository/memory"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(memory.NewStore(), "test-secret", nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Operator ", "a-long-password")
	require.NoError(t, err)
	assert.Equal(t, "operator", user.Username)
	assert.NotEqual(t, "a-long-password", user.PasswordHash)

	token, err := svc.Login(ctx, "Operator", "a-long-password")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewService(memory.NewStore(), "test-secret", nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "operator", "a-long-password")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "operator", "another-password")
	assert.ErrorIs(t, err, repository.ErrUserExists)
}

func TestRegisterWeakCredentials(t *testing.T) {
	svc := NewService(memory.NewStore(), "test-secret", nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "op", "a-long-password")
	assert.ErrorIs(t, err, ErrWeakCredentials)

	_, err = svc.Register(ctx, "operator", "short")
	assert.ErrorIs(t, err, ErrWeakCredentials)
}

func TestLoginFailures(t *testing.T) {
	svc := NewService(memory.NewStore(), "test-secret", nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "operator", "a-long-password")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "operator", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "a-long-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	svc := NewService(memory.NewStore(), "test-secret", nil)
	other := NewService(memory.NewStore(), "other-secret", nil)
	ctx := context.Background()

	_, err := other.Register(ctx, "operator", "a-long-password")
	require.NoError(t, err)
	token, err := other.Login(ctx, "operator", "a-long-password")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
