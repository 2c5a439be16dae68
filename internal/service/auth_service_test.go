package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/lejian-admin-api/internal/models"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
)

var testProfile = models.AdminProfile{ID: "2023114514", Role: "超级管理员", Department: "体育学院"}

func newTestAuthService(verifier CredentialVerifier) (*AuthService, *SessionRegistry) {
	registry := NewSessionRegistry(time.Hour)
	svc := NewAuthService(verifier, registry, testProfile, nil, NewMetricsService(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "lejian-admin",
	})
	return svc, registry
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, registry := newTestAuthService(LiteralVerifier{Username: "admin", Password: "admin"})

	form := &models.LoginForm{Username: "admin", Password: "admin"}
	res, err := svc.Login(context.Background(), form, models.LoginMeta{IP: "127.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "admin", res.Profile.Name)
	assert.Equal(t, "体育学院", res.Profile.Department)
	assert.Equal(t, 1, registry.Len())

	claims, session, err := svc.Authenticate(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, claims.SessionID, session.ID)
	assert.Equal(t, models.ViewProfile, session.View())
}

func TestAuthServiceLoginMismatchClearsForm(t *testing.T) {
	svc, registry := newTestAuthService(LiteralVerifier{Username: "admin", Password: "admin"})

	form := &models.LoginForm{Username: "admin", Password: "wrong"}
	res, err := svc.Login(context.Background(), form, models.LoginMeta{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	assert.Equal(t, "没有注册管理员权限", appErrors.FromError(err).Message)
	assert.Equal(t, models.LoginForm{}, *form)
	assert.Equal(t, 0, registry.Len())

	// retry is allowed
	form = &models.LoginForm{Username: "admin", Password: "admin"}
	_, err = svc.Login(context.Background(), form, models.LoginMeta{})
	assert.NoError(t, err)
}

func TestAuthServiceLoginEmptyFormIsValidationError(t *testing.T) {
	svc, _ := newTestAuthService(LiteralVerifier{Username: "admin", Password: "admin"})

	form := &models.LoginForm{Username: "admin"}
	_, err := svc.Login(context.Background(), form, models.LoginMeta{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, models.LoginForm{}, *form)
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	v := BcryptVerifier{Username: "admin", Hash: string(hash)}

	assert.True(t, v.Verify("admin", "s3cret"))
	assert.False(t, v.Verify("admin", "admin"))
	assert.False(t, v.Verify("root", "s3cret"))
}

func TestAuthServiceLogoutDropsSession(t *testing.T) {
	svc, registry := newTestAuthService(LiteralVerifier{Username: "admin", Password: "admin"})

	res, err := svc.Login(context.Background(), &models.LoginForm{Username: "admin", Password: "admin"}, models.LoginMeta{})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.SessionID))
	assert.Equal(t, 0, registry.Len())

	_, _, err = svc.Authenticate(res.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrSessionExpired)

	assert.ErrorIs(t, svc.Logout(context.Background(), " "), appErrors.ErrUnauthorized)
}

func TestAuthServiceValidateTokenRejectsForeignSignature(t *testing.T) {
	svc, _ := newTestAuthService(LiteralVerifier{Username: "admin", Password: "admin"})

	claims := &models.JWTClaims{
		SessionID: "sid",
		Username:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSessionRegistryExpiry(t *testing.T) {
	registry := NewSessionRegistry(time.Minute)
	now := time.Date(2023, 12, 18, 8, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	session := registry.Create("admin")
	got, err := registry.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	now = now.Add(2 * time.Minute)
	_, err = registry.Get(session.ID)
	assert.ErrorIs(t, err, appErrors.ErrSessionExpired)
	assert.Equal(t, 0, registry.Len())
}

func TestDashboardSessionSelections(t *testing.T) {
	session := newTestSession()

	assert.Error(t, session.SetView("settings"))
	require.NoError(t, session.SetView(models.ViewAppeals))
	assert.Equal(t, models.ViewAppeals, session.View())

	_, ok := session.SelectedAppeal()
	assert.False(t, ok)
	session.SetSelectedAppeal("2")
	id, ok := session.SelectedAppeal()
	assert.True(t, ok)
	assert.Equal(t, "2", id)
	session.ClearSelectedAppeal()
	_, ok = session.SelectedAppeal()
	assert.False(t, ok)

	session.SetSelectedWeek(4)
	week, ok := session.SelectedWeek()
	assert.True(t, ok)
	assert.Equal(t, 4, week)
	session.ClearSelectedWeek()
	_, ok = session.SelectedWeek()
	assert.False(t, ok)
}
