package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lejian-admin-api/internal/models"
)

func TestMemoryAppealRepositoryPreservesOrder(t *testing.T) {
	repo, err := NewMemoryAppealRepository(AppealSeed())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.SetStatus(ctx, "1", models.AppealStatusRejected)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
	assert.Equal(t, models.AppealStatusRejected, list[0].Status)
}

func TestMemoryAppealRepositoryRejectsBadSeed(t *testing.T) {
	seed := AppealSeed()
	seed[1].ID = "1"
	_, err := NewMemoryAppealRepository(seed)
	assert.Error(t, err)

	seed = AppealSeed()
	seed[0].Status = 0
	_, err = NewMemoryAppealRepository(seed)
	assert.Error(t, err)
}

func TestMemoryAppealRepositorySetStatus(t *testing.T) {
	repo, err := NewMemoryAppealRepository(AppealSeed())
	require.NoError(t, err)
	ctx := context.Background()

	previous, err := repo.SetStatus(ctx, "3", models.AppealStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.AppealStatusAccepted, previous)

	got, err := repo.GetByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, models.AppealStatusResolved, got.Status)

	_, err = repo.SetStatus(ctx, "99", models.AppealStatusResolved)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = repo.SetStatus(ctx, "3", 0)
	assert.Error(t, err)
}

func TestMemoryAppealRepositoryReturnsCopies(t *testing.T) {
	repo, err := NewMemoryAppealRepository(AppealSeed())
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	got.Status = models.AppealStatusRejected

	again, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, models.AppealStatusUnfiled, again.Status)
}

func TestMemoryAppealRepositoryTransitions(t *testing.T) {
	repo, err := NewMemoryAppealRepository(AppealSeed())
	require.NoError(t, err)
	ctx := context.Background()

	tr := &models.AppealTransition{AppealID: "2", From: models.AppealStatusUnfiled, To: models.AppealStatusAccepted, Actor: "admin"}
	require.NoError(t, repo.RecordTransition(ctx, tr))
	require.NoError(t, repo.RecordTransition(ctx, &models.AppealTransition{AppealID: "1", From: models.AppealStatusUnfiled, To: models.AppealStatusRejected}))

	history, err := repo.ListTransitions(ctx, "2")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.NotEmpty(t, history[0].ID)
	assert.False(t, history[0].CreatedAt.IsZero())

	empty, err := repo.ListTransitions(ctx, "4")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRosterRepository(t *testing.T) {
	repo := NewRosterRepository()
	ctx := context.Background()

	roster, err := repo.CheckInRoster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 18)
	assert.Equal(t, models.RosterStudent{ID: "2023001", Name: "张三", LatinName: "Zhang San"}, roster[0])
	assert.Equal(t, "2023018", roster[17].ID)

	class, err := repo.Students(ctx, 21)
	require.NoError(t, err)
	assert.Equal(t, "秦二二", class[19].Name)
	assert.Equal(t, models.RosterStudent{ID: "2023021", Name: "学生021", LatinName: "Student 021"}, class[20])

	_, err = repo.Students(ctx, MaxClassSize+1)
	assert.Error(t, err)

	weekly, err := repo.WeeklyAttendance(ctx)
	require.NoError(t, err)
	assert.Len(t, weekly, 16)
	weekly[0] = 0
	again, _ := repo.WeeklyAttendance(ctx)
	assert.Equal(t, 95, again[0])
}
