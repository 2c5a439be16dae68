package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/lejian-admin-api/internal/models"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
)

// CredentialVerifier decides whether a username/password pair is the operator's.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// LiteralVerifier matches a fixed plaintext pair.
type LiteralVerifier struct {
	Username string
	Password string
}

// Verify implements CredentialVerifier.
func (v LiteralVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.Password)) == 1
	return userOK && passOK
}

// BcryptVerifier matches the username literally and the password against a bcrypt hash.
type BcryptVerifier struct {
	Username string
	Hash     string
}

// Verify implements CredentialVerifier.
func (v BcryptVerifier) Verify(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(v.Hash), []byte(password)) == nil
}

// AuthConfig defines token settings.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService is the session gate: it checks credentials, issues session tokens
// and resolves them back to dashboard sessions.
type AuthService struct {
	verifier  CredentialVerifier
	sessions  *SessionRegistry
	profile   models.AdminProfile
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(verifier CredentialVerifier, sessions *SessionRegistry, profile models.AdminProfile, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if sessions == nil {
		sessions = NewSessionRegistry(config.AccessTokenExpiry)
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 12 * time.Hour
	}
	return &AuthService{
		verifier:  verifier,
		sessions:  sessions,
		profile:   profile,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		config:    config,
	}
}

// Login attempts to authenticate. On any failure the form is cleared in place so the
// caller can hand the blank form back.
func (s *AuthService) Login(ctx context.Context, form *models.LoginForm, meta models.LoginMeta) (*models.LoginResponse, error) {
	if form == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "login form is required")
	}
	if err := s.validator.Struct(form); err != nil {
		*form = models.LoginForm{}
		s.metrics.RecordLogin(false)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	if s.verifier == nil || !s.verifier.Verify(form.Username, form.Password) {
		s.logger.Warn("admin login rejected", zap.String("username", form.Username), zap.String("ip", meta.IP))
		*form = models.LoginForm{}
		s.metrics.RecordLogin(false)
		return nil, appErrors.ErrInvalidCredentials
	}

	session := s.sessions.Create(form.Username)
	token, err := s.issueToken(session)
	if err != nil {
		s.sessions.Delete(session.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.metrics.RecordLogin(true)
	s.metrics.SetActiveSessions(s.sessions.Len())
	s.logger.Info("admin logged in",
		zap.String("session_id", session.ID),
		zap.String("ip", meta.IP),
		zap.String("user_agent", meta.UserAgent))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    session.CreatedAt,
		Profile:     s.Profile(form.Username),
	}, nil
}

// Logout ends the dashboard session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return appErrors.ErrUnauthorized
	}
	s.sessions.Delete(sessionID)
	s.metrics.SetActiveSessions(s.sessions.Len())
	s.logger.Info("admin logged out", zap.String("session_id", sessionID))
	return nil
}

// Profile returns the operator card. The display name is the login username.
func (s *AuthService) Profile(username string) models.AdminProfile {
	profile := s.profile
	if username != "" {
		profile.Name = username
	}
	return profile
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Authenticate resolves a bearer token into its claims and live session.
func (s *AuthService) Authenticate(tokenString string) (*models.JWTClaims, *DashboardSession, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.sessions.Get(claims.SessionID)
	if err != nil {
		return nil, nil, err
	}
	return claims, session, nil
}

func (s *AuthService) issueToken(session *DashboardSession) (string, error) {
	claims := &models.JWTClaims{
		SessionID: session.ID,
		Username:  session.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   session.Username,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}
