package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lejian-admin-api/internal/models"
	"github.com/noah-isme/lejian-admin-api/internal/service"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
	"github.com/noah-isme/lejian-admin-api/pkg/response"
)

// Context keys for the authenticated operator.
const (
	ContextClaimsKey  = "currentClaims"
	ContextSessionKey = "dashboardSession"
)

type sessionAuthenticator interface {
	Authenticate(token string) (*models.JWTClaims, *service.DashboardSession, error)
}

// Session requires a bearer token bound to a live dashboard session.
func Session(auth sessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			return
		}

		claims, session, err := auth.Authenticate(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// CurrentSession returns the session and claims stored by Session.
func CurrentSession(c *gin.Context) (*service.DashboardSession, *models.JWTClaims, bool) {
	sessionValue, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, nil, false
	}
	session, ok := sessionValue.(*service.DashboardSession)
	if !ok || session == nil {
		return nil, nil, false
	}
	claimsValue, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, nil, false
	}
	claims, ok := claimsValue.(*models.JWTClaims)
	if !ok || claims == nil {
		return nil, nil, false
	}
	return session, claims, true
}
