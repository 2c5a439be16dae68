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

type appealService interface {
	List(ctx context.Context) (*dto.AppealListResponse, error)
	View(ctx context.Context, sel service.AppealSelection) (*dto.AppealViewResponse, error)
	Select(ctx context.Context, sel service.AppealSelection, id string) (*dto.AppealDetailResponse, error)
	ClearSelection(sel service.AppealSelection)
	Detail(ctx context.Context, id string) (*dto.AppealDetailResponse, error)
	SetStatus(ctx context.Context, id string, req dto.UpdateAppealStatusRequest, actor string) (*dto.AppealDetailResponse, error)
	ApplyAction(ctx context.Context, id string, action models.AppealAction, actor string) (*dto.AppealActionResponse, error)
	Transitions(ctx context.Context, id string) ([]models.AppealTransition, error)
}

// AppealHandler exposes the appeal workflow.
type AppealHandler struct {
	service appealService
}

// NewAppealHandler constructs the handler.
func NewAppealHandler(service appealService) *AppealHandler {
	return &AppealHandler{service: service}
}

// List godoc
// @Summary List appeals in store order
// @Tags Appeals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /appeals [get]
func (h *AppealHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// View godoc
// @Summary List or detail, following the session's selection
// @Tags Appeals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /appeals/view [get]
func (h *AppealHandler) View(c *gin.Context) {
	session, _, ok := sessionFromContext(c)
	if !ok {
		return
	}
	view, err := h.service.View(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// Select godoc
// @Summary Open an appeal in detail mode
// @Tags Appeals
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appeal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appeals/{id}/select [post]
func (h *AppealHandler) Select(c *gin.Context) {
	session, _, ok := sessionFromContext(c)
	if !ok {
		return
	}
	detail, err := h.service.Select(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// ClearSelection godoc
// @Summary Return to list mode
// @Tags Appeals
// @Security BearerAuth
// @Success 204
// @Router /appeals/selection [delete]
func (h *AppealHandler) ClearSelection(c *gin.Context) {
	session, _, ok := sessionFromContext(c)
	if !ok {
		return
	}
	h.service.ClearSelection(session)
	response.NoContent(c)
}

// Get godoc
// @Summary Appeal detail with status controls
// @Tags Appeals
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appeal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appeals/{id} [get]
func (h *AppealHandler) Get(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// UpdateStatus godoc
// @Summary Overwrite an appeal's status
// @Tags Appeals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appeal ID"
// @Param payload body dto.UpdateAppealStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appeals/{id}/status [put]
func (h *AppealHandler) UpdateStatus(c *gin.Context) {
	_, claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateAppealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	detail, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req, claims.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Action godoc
// @Summary Press a detail-view control
// @Description accept, resolve and reject are no-ops when the appeal already holds that status; reset is a no-op on unfiled appeals.
// @Tags Appeals
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appeal ID"
// @Param action path string true "accept | resolve | reject | reset"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appeals/{id}/actions/{action} [post]
func (h *AppealHandler) Action(c *gin.Context) {
	_, claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	res, err := h.service.ApplyAction(c.Request.Context(), c.Param("id"), models.AppealAction(c.Param("action")), claims.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Transitions godoc
// @Summary Status history of an appeal
// @Tags Appeals
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appeal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appeals/{id}/transitions [get]
func (h *AppealHandler) Transitions(c *gin.Context) {
	history, err := h.service.Transitions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, history)
}
