package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lejian-admin-api/internal/middleware"
	"github.com/noah-isme/lejian-admin-api/internal/models"
	"github.com/noah-isme/lejian-admin-api/internal/service"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
	"github.com/noah-isme/lejian-admin-api/pkg/response"
)

// sessionFromContext writes a 401 and returns ok=false when no session is attached.
func sessionFromContext(c *gin.Context) (*service.DashboardSession, *models.JWTClaims, bool) {
	session, claims, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, nil, false
	}
	return session, claims, true
}

func withCacheMeta(c *gin.Context, hit bool) map[string]interface{} {
	middleware.SetCacheHit(c, hit)
	return middleware.ExtractMeta(c)
}
