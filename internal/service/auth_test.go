package service

import (
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"Movie_Catalog/internal/testutil"
	"Movie_Catalog/pkg/config"
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		HashRounds:         bcrypt.MinCost,
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     5 * time.Minute,
		RefreshTokenTTL:    24 * time.Hour,
	}
}

func basic(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func newAuthFixture(t *testing.T, cfg config.AuthConfig) (AuthService, repository.UserRepository) {
	t.Helper()
	db := testutil.NewTestDB(t)
	_, rdb := testutil.NewTestRedis(t)
	userRepo := repository.NewUserRepository(db)
	return NewAuthService(userRepo, repository.NewTokenRepository(rdb), cfg), userRepo
}

func TestParseBasicToken(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		email   string
		wantErr bool
	}{
		{"ok", basic("a@b.io", "1234"), "a@b.io", false},
		{"no scheme", base64.StdEncoding.EncodeToString([]byte("a@b.io:1234")), "", true},
		{"too many parts", "Basic x y", "", true},
		{"not base64", "Basic !!!", "", true},
		{"no colon", "Basic " + base64.StdEncoding.EncodeToString([]byte("a@b.io")), "", true},
		{"two colons", "Basic " + base64.StdEncoding.EncodeToString([]byte("a:b:c")), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, _, err := ParseBasicToken(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTokenFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, email)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, userRepo := newAuthFixture(t, testAuthConfig())
	ctx := context.Background()

	user, err := svc.Register(ctx, basic("new@movie.io", "secret"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "secret", user.Password)

	_, err = svc.Register(ctx, basic("new@movie.io", "other"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, basic("long@movie.io", strings.Repeat("p", maxPasswordBytes+1)))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	_, err = svc.Register(ctx, basic("edge@movie.io", strings.Repeat("p", maxPasswordBytes)))
	assert.NoError(t, err)

	stored, err := userRepo.FindByEmail(ctx, "new@movie.io")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret")))

	pair, err := svc.Login(ctx, basic("new@movie.io", "secret"))
	require.NoError(t, err)

	access, err := svc.VerifyToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, access.Type)
	assert.Equal(t, user.ID, access.UserID())

	refresh, err := svc.VerifyToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.Type)

	_, err = svc.Login(ctx, basic("new@movie.io", "wrong"))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, basic("nobody@movie.io", "secret"))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseBearerTokenChecksType(t *testing.T) {
	svc, _ := newAuthFixture(t, testAuthConfig())

	access, err := svc.IssueToken(7, model.RolePaidUser, false)
	require.NoError(t, err)
	refresh, err := svc.IssueToken(7, model.RolePaidUser, true)
	require.NoError(t, err)

	claims, err := svc.ParseBearerToken("Bearer "+access, false)
	require.NoError(t, err)
	assert.Equal(t, model.RolePaidUser, claims.Role)

	_, err = svc.ParseBearerToken("Bearer "+access, true)
	assert.ErrorIs(t, err, ErrRefreshTokenRequired)
	_, err = svc.ParseBearerToken("Bearer "+refresh, false)
	assert.ErrorIs(t, err, ErrAccessTokenRequired)
	_, err = svc.ParseBearerToken("Token "+access, false)
	assert.ErrorIs(t, err, ErrInvalidTokenFormat)
	_, err = svc.ParseBearerToken("Bearer", false)
	assert.ErrorIs(t, err, ErrInvalidTokenFormat)
}

func TestVerifyTokenRejectsWrongSecretAndExpired(t *testing.T) {
	svc, _ := newAuthFixture(t, testAuthConfig())

	other := testAuthConfig()
	other.AccessTokenSecret = "someone-else"
	forger, _ := newAuthFixture(t, other)
	forged, err := forger.IssueToken(1, model.RoleAdmin, false)
	require.NoError(t, err)
	_, err = svc.VerifyToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expiredCfg := testAuthConfig()
	expiredCfg.AccessTokenTTL = -time.Minute
	expiredSvc, _ := newAuthFixture(t, expiredCfg)
	expired, err := expiredSvc.IssueToken(1, model.RoleUser, false)
	require.NoError(t, err)
	_, err = svc.VerifyToken(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = svc.VerifyToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRotateAccessToken(t *testing.T) {
	svc, _ := newAuthFixture(t, testAuthConfig())

	refresh, err := svc.IssueToken(3, model.RoleUser, true)
	require.NoError(t, err)
	access, err := svc.RotateAccessToken("Bearer " + refresh)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(access)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, uint64(3), claims.UserID())

	_, err = svc.RotateAccessToken("Bearer " + access)
	assert.ErrorIs(t, err, ErrRefreshTokenRequired)
}

func TestBlockToken(t *testing.T) {
	svc, _ := newAuthFixture(t, testAuthConfig())
	ctx := context.Background()

	token, err := svc.IssueToken(10, model.RoleUser, false)
	require.NoError(t, err)
	owner, err := svc.VerifyToken(token)
	require.NoError(t, err)

	stranger := &Claims{Role: model.RoleUser}
	stranger.Subject = "11"
	assert.ErrorIs(t, svc.BlockToken(ctx, stranger, token), ErrForbidden)
	assert.ErrorIs(t, svc.BlockToken(ctx, nil, token), ErrForbidden)

	blocked, err := svc.IsBlocked(ctx, token)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, svc.BlockToken(ctx, owner, token))
	blocked, err = svc.IsBlocked(ctx, token)
	require.NoError(t, err)
	assert.True(t, blocked)

	admin := &Claims{Role: model.RoleAdmin}
	admin.Subject = "1"
	other, err := svc.IssueToken(12, model.RoleUser, true)
	require.NoError(t, err)
	require.NoError(t, svc.BlockToken(ctx, admin, other))

	assert.ErrorIs(t, svc.BlockToken(ctx, admin, "garbage"), ErrInvalidToken)
}
