package services_test

import (
	"context"
	"testing"

	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/config"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  60,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthService(t *testing.T) (*services.AuthService, *gorm.DB, *config.Config) {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()
	svc := services.NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		cfg,
	)
	return svc, db, cfg
}

func registerAlice(t *testing.T, svc *services.AuthService) {
	t.Helper()
	_, err := svc.Register(context.Background(), &services.RegisterInput{
		Name:     "Alice",
		Username: "alice",
		Password: "secret123",
		Email:    "alice@example.com",
		Phone:    "0812345678",
	})
	require.NoError(t, err)
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	svc, _, _ := newAuthService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	tests := []struct {
		name  string
		input services.RegisterInput
	}{
		{"duplicate username", services.RegisterInput{Name: "A", Username: "alice", Password: "secret123", Email: "other@example.com", Phone: "0899999999"}},
		{"duplicate email", services.RegisterInput{Name: "A", Username: "alice2", Password: "secret123", Email: "alice@example.com", Phone: "0899999999"}},
		{"duplicate phone", services.RegisterInput{Name: "A", Username: "alice2", Password: "secret123", Email: "other@example.com", Phone: "0812345678"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.input)
			assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		})
	}
}

func TestLogin_IssuesOneHourToken(t *testing.T) {
	svc, _, cfg := newAuthService(t)
	registerAlice(t, svc)

	result, err := svc.Login(context.Background(), &services.LoginInput{
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	claims, err := jwt.ValidateAccessToken(result.AccessToken, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.False(t, claims.IsAdmin)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newAuthService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	_, err := svc.Login(ctx, &services.LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &services.LoginInput{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefresh_RotatesTokenPair(t *testing.T) {
	svc, _, _ := newAuthService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, &services.LoginInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is revoked after rotation
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestRefresh_ReuseKillsAllSessions(t *testing.T) {
	svc, _, _ := newAuthService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, &services.LoginInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)

	// Presenting the revoked token again revokes the whole family,
	// including the freshly rotated token
	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.Refresh(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	svc, _, _ := newAuthService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, &services.LoginInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
