package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lejian-admin-api/internal/dto"
	"github.com/noah-isme/lejian-admin-api/internal/service"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
	"github.com/noah-isme/lejian-admin-api/pkg/response"
)

type checkInService interface {
	Calendar() *dto.CheckInCalendarResponse
	View(ctx context.Context, sel service.WeekSelection) (*dto.CheckInViewResponse, bool, error)
	Select(ctx context.Context, sel service.WeekSelection, week int) (*dto.CheckInDetailResponse, bool, error)
	ClearSelection(sel service.WeekSelection)
	Detail(ctx context.Context, week int) (*dto.CheckInDetailResponse, bool, error)
}

// CheckInHandler exposes check-in monitoring.
type CheckInHandler struct {
	service checkInService
}

// NewCheckInHandler constructs the handler.
func NewCheckInHandler(service checkInService) *CheckInHandler {
	return &CheckInHandler{service: service}
}

// View godoc
// @Summary Calendar or selected week
// @Tags CheckIn
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /checkin [get]
func (h *CheckInHandler) View(c *gin.Context) {
	session, _, ok := sessionFromContext(c)
	if !ok {
		return
	}
	view, hit, err := h.service.View(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view, withCacheMeta(c, hit))
}

// Weeks godoc
// @Summary Course weeks and whether check-in is open
// @Tags CheckIn
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /checkin/weeks [get]
func (h *CheckInHandler) Weeks(c *gin.Context) {
	response.OK(c, h.service.Calendar())
}

// Select godoc
// @Summary Open a week's attendance grid
// @Tags CheckIn
// @Security BearerAuth
// @Produce json
// @Param week path int true "Week number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /checkin/weeks/{week}/select [post]
func (h *CheckInHandler) Select(c *gin.Context) {
	session, _, ok := sessionFromContext(c)
	if !ok {
		return
	}
	week, ok := weekParam(c)
	if !ok {
		return
	}
	detail, hit, err := h.service.Select(c.Request.Context(), session, week)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail, withCacheMeta(c, hit))
}

// ClearSelection godoc
// @Summary Back to the week list
// @Tags CheckIn
// @Security BearerAuth
// @Success 204
// @Router /checkin/selection [delete]
func (h *CheckInHandler) ClearSelection(c *gin.Context) {
	session, _, ok := sessionFromContext(c)
	if !ok {
		return
	}
	h.service.ClearSelection(session)
	response.NoContent(c)
}

// Detail godoc
// @Summary Attendance grid for a week
// @Tags CheckIn
// @Security BearerAuth
// @Produce json
// @Param week path int true "Week number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /checkin/weeks/{week} [get]
func (h *CheckInHandler) Detail(c *gin.Context) {
	week, ok := weekParam(c)
	if !ok {
		return
	}
	detail, hit, err := h.service.Detail(c.Request.Context(), week)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail, withCacheMeta(c, hit))
}

func weekParam(c *gin.Context) (int, bool) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "week must be a number"))
		return 0, false
	}
	return week, true
}
