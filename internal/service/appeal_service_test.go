package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lejian-admin-api/internal/dto"
	"github.com/noah-isme/lejian-admin-api/internal/models"
	"github.com/noah-isme/lejian-admin-api/internal/repository"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
)

func newSeededAppealService(t *testing.T) (*AppealService, *repository.MemoryAppealRepository) {
	t.Helper()
	repo, err := repository.NewMemoryAppealRepository(repository.AppealSeed())
	require.NoError(t, err)
	return NewAppealService(repo, nil, NewMetricsService(), zap.NewNop()), repo
}

func newTestSession() *DashboardSession {
	return newDashboardSession("admin", time.Now().UTC(), time.Hour)
}

func TestAppealServiceSetStatusRoundTrip(t *testing.T) {
	svc, _ := newSeededAppealService(t)
	ctx := context.Background()

	for _, status := range models.AppealStatuses() {
		detail, err := svc.SetStatus(ctx, "2", dto.UpdateAppealStatusRequest{Status: status.String()}, "admin")
		require.NoError(t, err)
		assert.Equal(t, status, detail.Status)

		again, err := svc.Detail(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, status, again.Status)
		assert.Equal(t, status.Label(), again.StatusLabel)
	}
}

func TestAppealServiceSetStatusAcceptsLabel(t *testing.T) {
	svc, _ := newSeededAppealService(t)

	detail, err := svc.SetStatus(context.Background(), "1", dto.UpdateAppealStatusRequest{Status: "已拒绝"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.AppealStatusRejected, detail.Status)
}

func TestAppealServiceSetStatusValidation(t *testing.T) {
	svc, _ := newSeededAppealService(t)
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, "1", dto.UpdateAppealStatusRequest{}, "admin")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.SetStatus(ctx, "1", dto.UpdateAppealStatusRequest{Status: "PENDING"}, "admin")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.SetStatus(ctx, "404", dto.UpdateAppealStatusRequest{Status: "ACCEPTED"}, "admin")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAppealServicePendingCountTracksUnfiled(t *testing.T) {
	svc, _ := newSeededAppealService(t)
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.AppealSummary{Total: 4, Pending: 2}, list.Summary)
	assert.Empty(t, list.EmptyMessage)

	_, err = svc.ApplyAction(ctx, "1", models.AppealActionAccept, "admin")
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Summary.Pending)

	_, err = svc.ApplyAction(ctx, "2", models.AppealActionReject, "admin")
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Summary.Pending)
	assert.Equal(t, 4, list.Summary.Total)

	ids := []string{}
	for _, row := range list.Items {
		ids = append(ids, row.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestAppealServiceEmptyList(t *testing.T) {
	repo, err := repository.NewMemoryAppealRepository(nil)
	require.NoError(t, err)
	svc := NewAppealService(repo, nil, nil, nil)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, list.Summary.Total)
	assert.Equal(t, "暂无申诉记录", list.EmptyMessage)
	assert.NotNil(t, list.Items)
}

func TestAppealServiceControls(t *testing.T) {
	svc, _ := newSeededAppealService(t)
	ctx := context.Background()

	unfiled, err := svc.Detail(ctx, "1")
	require.NoError(t, err)
	require.Len(t, unfiled.Controls, 3)
	for _, ctrl := range unfiled.Controls {
		assert.True(t, ctrl.Enabled, ctrl.Action)
		assert.NotEqual(t, models.AppealActionReset, ctrl.Action)
	}

	accepted, err := svc.Detail(ctx, "3")
	require.NoError(t, err)
	require.Len(t, accepted.Controls, 4)
	enabled := map[models.AppealAction]bool{}
	for _, ctrl := range accepted.Controls {
		enabled[ctrl.Action] = ctrl.Enabled
	}
	assert.False(t, enabled[models.AppealActionAccept])
	assert.True(t, enabled[models.AppealActionResolve])
	assert.True(t, enabled[models.AppealActionReject])
	assert.True(t, enabled[models.AppealActionReset])
}

func TestAppealServiceDisabledControlsAreNoOps(t *testing.T) {
	svc, repo := newSeededAppealService(t)
	ctx := context.Background()

	res, err := svc.ApplyAction(ctx, "3", models.AppealActionAccept, "admin")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, models.AppealStatusAccepted, res.Appeal.Status)

	res, err = svc.ApplyAction(ctx, "1", models.AppealActionReset, "admin")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, models.AppealStatusUnfiled, res.Appeal.Status)

	for _, id := range []string{"1", "3"} {
		history, err := repo.ListTransitions(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, history)
	}
}

func TestAppealServiceActionRecordsTransition(t *testing.T) {
	svc, _ := newSeededAppealService(t)
	ctx := context.Background()

	res, err := svc.ApplyAction(ctx, "4", models.AppealActionReset, "admin")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, models.AppealStatusUnfiled, res.Appeal.Status)

	history, err := svc.Transitions(ctx, "4")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.AppealStatusResolved, history[0].From)
	assert.Equal(t, models.AppealStatusUnfiled, history[0].To)
	assert.Equal(t, "admin", history[0].Actor)

	_, err = svc.ApplyAction(ctx, "4", models.AppealAction("escalate"), "admin")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Transitions(ctx, "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAppealServiceSelfTransitionRecordsNothing(t *testing.T) {
	svc, repo := newSeededAppealService(t)
	ctx := context.Background()

	detail, err := svc.SetStatus(ctx, "3", dto.UpdateAppealStatusRequest{Status: "ACCEPTED"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.AppealStatusAccepted, detail.Status)

	history, err := repo.ListTransitions(ctx, "3")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAppealServiceSelectAndClear(t *testing.T) {
	svc, _ := newSeededAppealService(t)
	ctx := context.Background()
	session := newTestSession()

	before, err := svc.List(ctx)
	require.NoError(t, err)

	view, err := svc.View(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, dto.ViewModeList, view.Mode)

	detail, err := svc.Select(ctx, session, "2")
	require.NoError(t, err)
	assert.Equal(t, "李四", detail.StudentName)

	view, err = svc.View(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, dto.ViewModeDetail, view.Mode)
	assert.Equal(t, "2", view.Detail.ID)

	svc.ClearSelection(session)
	view, err = svc.View(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, dto.ViewModeList, view.Mode)
	assert.Equal(t, before, view.List)
}

func TestAppealServiceSelectUnknownKeepsListMode(t *testing.T) {
	svc, _ := newSeededAppealService(t)
	session := newTestSession()

	_, err := svc.Select(context.Background(), session, "99")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, ok := session.SelectedAppeal()
	assert.False(t, ok)
}

func TestAppealServiceDetailReadsOwnWrite(t *testing.T) {
	svc, _ := newSeededAppealService(t)
	ctx := context.Background()
	session := newTestSession()

	_, err := svc.Select(ctx, session, "2")
	require.NoError(t, err)

	res, err := svc.ApplyAction(ctx, "2", models.AppealActionResolve, "admin")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, models.AppealStatusResolved, res.Appeal.Status)

	view, err := svc.View(ctx, session)
	require.NoError(t, err)
	require.Equal(t, dto.ViewModeDetail, view.Mode)
	assert.Equal(t, models.AppealStatusResolved, view.Detail.Status)
	assert.Equal(t, "bg-green-100 text-green-800", view.Detail.StatusColor)
}

type failingAppealRepo struct {
	repository.MemoryAppealRepository
	err error
}

func (f *failingAppealRepo) List(context.Context) ([]models.Appeal, error) {
	return nil, f.err
}

func TestAppealServiceListFailure(t *testing.T) {
	svc := NewAppealService(&failingAppealRepo{err: errors.New("boom")}, nil, nil, nil)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
