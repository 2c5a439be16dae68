package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lejian-admin-api/internal/dto"
	"github.com/noah-isme/lejian-admin-api/internal/models"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
)

const emptyAppealListMessage = "暂无申诉记录"

var controlLabels = map[models.AppealAction]string{
	models.AppealActionAccept:  "受理申诉",
	models.AppealActionResolve: "标记为已解决",
	models.AppealActionReject:  "拒绝申诉",
	models.AppealActionReset:   "重置状态",
}

// AppealRepository is the appeal store.
type AppealRepository interface {
	List(ctx context.Context) ([]models.Appeal, error)
	GetByID(ctx context.Context, id string) (*models.Appeal, error)
	SetStatus(ctx context.Context, id string, status models.AppealStatus) (models.AppealStatus, error)
	RecordTransition(ctx context.Context, t *models.AppealTransition) error
	ListTransitions(ctx context.Context, appealID string) ([]models.AppealTransition, error)
}

// AppealSelection is the "selected appeal" slot of a dashboard session.
type AppealSelection interface {
	SelectedAppeal() (string, bool)
	SetSelectedAppeal(id string)
	ClearSelectedAppeal()
}

// AppealService implements the appeal list, detail view and status workflow.
type AppealService struct {
	repo      AppealRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewAppealService constructs the service.
func NewAppealService(repo AppealRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *AppealService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppealService{repo: repo, validator: validate, metrics: metrics, logger: logger}
}

// List returns every appeal in store order with the total/pending summary.
func (s *AppealService) List(ctx context.Context) (*dto.AppealListResponse, error) {
	appeals, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appeals")
	}

	resp := &dto.AppealListResponse{Items: make([]dto.AppealRow, 0, len(appeals))}
	for _, a := range appeals {
		resp.Items = append(resp.Items, dto.AppealRow{
			ID:          a.ID,
			Type:        a.Type,
			StudentName: a.StudentName,
			Date:        a.Date,
			Status:      a.Status,
			StatusLabel: a.Status.Label(),
			StatusColor: a.Status.ColorClass(),
		})
		if a.Status == models.AppealStatusUnfiled {
			resp.Summary.Pending++
		}
	}
	resp.Summary.Total = len(appeals)
	if resp.Summary.Total == 0 {
		resp.EmptyMessage = emptyAppealListMessage
	}
	return resp, nil
}

// Detail returns one appeal with its status controls.
func (s *AppealService) Detail(ctx context.Context, id string) (*dto.AppealDetailResponse, error) {
	appeal, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return detailOf(appeal), nil
}

// SetStatus overwrites the status unconditionally, including self-transitions.
func (s *AppealService) SetStatus(ctx context.Context, id string, req dto.UpdateAppealStatusRequest, actor string) (*dto.AppealDetailResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status must be one of UNFILED, ACCEPTED, RESOLVED, REJECTED")
	}
	status, err := models.ParseAppealStatus(req.Status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if _, err := s.setStatus(ctx, id, status, actor); err != nil {
		return nil, err
	}
	return s.Detail(ctx, id)
}

// ApplyAction runs a detail-view control. Disabled controls (target equals the
// current status, or reset on an unfiled appeal) change nothing and report changed=false.
func (s *AppealService) ApplyAction(ctx context.Context, id string, action models.AppealAction, actor string) (*dto.AppealActionResponse, error) {
	target, ok := action.Target()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "action must be one of accept, resolve, reject, reset")
	}
	appeal, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !controlEnabled(action, appeal.Status) {
		return &dto.AppealActionResponse{Changed: false, Appeal: detailOf(appeal)}, nil
	}

	changed, err := s.setStatus(ctx, id, target, actor)
	if err != nil {
		return nil, err
	}
	detail, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.AppealActionResponse{Changed: changed, Appeal: detail}, nil
}

// Transitions returns the recorded status history of an appeal.
func (s *AppealService) Transitions(ctx context.Context, id string) ([]models.AppealTransition, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	history, err := s.repo.ListTransitions(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appeal history")
	}
	return history, nil
}

// Select opens the detail view for id in the given session.
func (s *AppealService) Select(ctx context.Context, sel AppealSelection, id string) (*dto.AppealDetailResponse, error) {
	detail, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	sel.SetSelectedAppeal(detail.ID)
	return detail, nil
}

// ClearSelection returns the session to list mode.
func (s *AppealService) ClearSelection(sel AppealSelection) {
	sel.ClearSelectedAppeal()
}

// View renders list or detail mode depending on the session's selection.
func (s *AppealService) View(ctx context.Context, sel AppealSelection) (*dto.AppealViewResponse, error) {
	if id, ok := sel.SelectedAppeal(); ok {
		detail, err := s.Detail(ctx, id)
		if err == nil {
			return &dto.AppealViewResponse{Mode: dto.ViewModeDetail, Detail: detail}, nil
		}
		if !errors.Is(err, appErrors.ErrNotFound) {
			return nil, err
		}
		sel.ClearSelectedAppeal()
	}
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AppealViewResponse{Mode: dto.ViewModeList, List: list}, nil
}

func (s *AppealService) get(ctx context.Context, id string) (*models.Appeal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "appeal id is required")
	}
	appeal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appeal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appeal")
	}
	return appeal, nil
}

// setStatus writes the status and records a transition when it actually changed.
func (s *AppealService) setStatus(ctx context.Context, id string, status models.AppealStatus, actor string) (bool, error) {
	id = strings.TrimSpace(id)
	previous, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.Clone(appErrors.ErrNotFound, "appeal not found")
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appeal status")
	}
	if previous == status {
		return false, nil
	}

	transition := &models.AppealTransition{AppealID: id, From: previous, To: status, Actor: actor}
	if err := s.repo.RecordTransition(ctx, transition); err != nil {
		s.logger.Warn("failed to record appeal transition", zap.String("appeal_id", id), zap.Error(err))
	}
	s.metrics.RecordAppealTransition(status)
	s.logger.Info("appeal status changed",
		zap.String("appeal_id", id),
		zap.String("from", previous.String()),
		zap.String("to", status.String()),
		zap.String("actor", actor))
	return true, nil
}

func controlEnabled(action models.AppealAction, current models.AppealStatus) bool {
	target, ok := action.Target()
	if !ok {
		return false
	}
	if action == models.AppealActionReset {
		return current != models.AppealStatusUnfiled
	}
	return current != target
}

func detailOf(a *models.Appeal) *dto.AppealDetailResponse {
	detail := &dto.AppealDetailResponse{
		Appeal:      *a,
		StatusLabel: a.Status.Label(),
		StatusColor: a.Status.ColorClass(),
		Controls:    make([]dto.AppealControl, 0, 4),
	}
	for _, action := range []models.AppealAction{models.AppealActionAccept, models.AppealActionResolve, models.AppealActionReject} {
		target, _ := action.Target()
		detail.Controls = append(detail.Controls, dto.AppealControl{
			Action:  action,
			Label:   controlLabels[action],
			Target:  target,
			Enabled: controlEnabled(action, a.Status),
		})
	}
	if a.Status != models.AppealStatusUnfiled {
		detail.Controls = append(detail.Controls, dto.AppealControl{
			Action:  models.AppealActionReset,
			Label:   controlLabels[models.AppealActionReset],
			Target:  models.AppealStatusUnfiled,
			Enabled: true,
		})
	}
	return detail
}
