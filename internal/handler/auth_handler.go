package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lejian-admin-api/internal/models"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
	"github.com/noah-isme/lejian-admin-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, form *models.LoginForm, meta models.LoginMeta) (*models.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Profile(username string) models.AdminProfile
}

// AuthHandler wires HTTP endpoints to the session gate.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Sign in as the administrator
// @Description On failure the cleared login form is returned alongside the error.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginForm true "Login form"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"), models.LoginForm{})
		return
	}

	res, err := h.service.Login(c.Request.Context(), &form, models.LoginMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")})
	if err != nil {
		response.Error(c, err, form)
		return
	}

	response.OK(c, res)
}

// Logout godoc
// @Summary End the dashboard session
// @Tags Authentication
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session, _, ok := sessionFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Logout(c.Request.Context(), session.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Current administrator
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session, claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	response.OK(c, gin.H{
		"profile":    h.service.Profile(claims.Username),
		"session_id": session.ID,
		"expires_at": session.ExpiresAt,
	})
}
