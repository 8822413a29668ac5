package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ticketrack/ticketrack/internal/config"
	"github.com/ticketrack/ticketrack/internal/repository"
	apperrors "github.com/ticketrack/ticketrack/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func newAuthService() *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{
		UserRepo: repository.NewMemoryUserRepository(),
	})
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "supersecret")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "supersecret", user.PasswordHash)

	_, err = svc.Register(ctx, "alice", "other")
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, "CONFLICT", domainErr.Code)
	require.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "supersecret")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "alice", "wrong")
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
}

func TestAuthService_LoginUnknownUser(t *testing.T) {
	svc := newAuthService()

	_, _, _, err := svc.Login(context.Background(), "ghost", "whatever")
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
}

func TestAuthService_LoginIssuesToken(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "supersecret")
	require.NoError(t, err)

	user, token, exp, err := svc.Login(ctx, "alice", "supersecret")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, token)
	require.False(t, exp.IsZero())

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.UserID)
}
