package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lejian-admin-api/internal/dto"
	"github.com/noah-isme/lejian-admin-api/internal/models"
	"github.com/noah-isme/lejian-admin-api/internal/service"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
	"github.com/noah-isme/lejian-admin-api/pkg/response"
)

type dashboardService interface {
	Shell(session service.ViewSession, username string) *dto.DashboardShellResponse
	SwitchView(session service.ViewSession, username string, req dto.SwitchViewRequest) (*dto.DashboardShellResponse, error)
	Profile(username string) models.AdminProfile
	Content(ctx context.Context, session service.ViewSession, username string) (*dto.DashboardContentResponse, bool, error)
}

// DashboardHandler serves the dashboard shell.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Shell godoc
// @Summary Navigation, title and greeting for the current view
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Shell(c *gin.Context) {
	session, claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	response.OK(c, h.service.Shell(session, claims.Username))
}

// SwitchView godoc
// @Summary Switch the current view
// @Tags Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.SwitchViewRequest true "Target view"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/view [put]
func (h *DashboardHandler) SwitchView(c *gin.Context) {
	session, claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.SwitchViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid view payload"))
		return
	}
	shell, err := h.service.SwitchView(session, claims.Username, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, shell)
}

// Content godoc
// @Summary Payload of the current view
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/content [get]
func (h *DashboardHandler) Content(c *gin.Context) {
	session, claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	content, hit, err := h.service.Content(c.Request.Context(), session, claims.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, content, withCacheMeta(c, hit))
}

// Profile godoc
// @Summary Administrator profile
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile [get]
func (h *DashboardHandler) Profile(c *gin.Context) {
	_, claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	response.OK(c, h.service.Profile(claims.Username))
}
