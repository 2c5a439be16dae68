package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lejian-admin-api/internal/models"
)

func newAppealSQLRepo(t *testing.T) (*AppealSQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAppealSQLRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestAppealSQLRepositoryList(t *testing.T) {
	repo, mock := newAppealSQLRepo(t)

	rows := sqlmock.NewRows([]string{"id", "type", "student_name", "student_id", "description", "status", "submitted_on"}).
		AddRow("1", "里程数据错误", "张三", "2023001", "desc", "UNFILED", time.Date(2023, 12, 18, 0, 0, 0, 0, time.UTC)).
		AddRow("3", "打卡过点问题", "王五", "2023003", "desc", "ACCEPTED", "2023-12-16")

	mock.ExpectQuery(regexp.QuoteMeta("FROM appeals ORDER BY position ASC")).WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.AppealStatusUnfiled, list[0].Status)
	assert.Equal(t, "2023-12-18", list[0].Date.String())
	assert.Equal(t, models.AppealStatusAccepted, list[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppealSQLRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newAppealSQLRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM appeals WHERE id = $1")).
		WithArgs("404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "404")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppealSQLRepositorySetStatus(t *testing.T) {
	repo, mock := newAppealSQLRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM appeals WHERE id = $1 FOR UPDATE")).
		WithArgs("2").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("UNFILED"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE appeals SET status = $1 WHERE id = $2")).
		WithArgs("REJECTED", "2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	previous, err := repo.SetStatus(context.Background(), "2", models.AppealStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.AppealStatusUnfiled, previous)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppealSQLRepositorySetStatusMissingRow(t *testing.T) {
	repo, mock := newAppealSQLRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("9").
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	_, err := repo.SetStatus(context.Background(), "9", models.AppealStatusAccepted)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppealSQLRepositorySeed(t *testing.T) {
	repo, mock := newAppealSQLRepo(t)
	seed := AppealSeed()

	mock.ExpectBegin()
	for i, a := range seed {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO appeals")).
			WithArgs(a.ID, i+1, a.Type, a.StudentName, a.StudentID, a.Description, a.Status.String(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Seed(context.Background(), seed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppealSQLRepositoryTransitions(t *testing.T) {
	repo, mock := newAppealSQLRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO appeal_transitions")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tr := &models.AppealTransition{AppealID: "1", From: models.AppealStatusUnfiled, To: models.AppealStatusAccepted, Actor: "admin"}
	require.NoError(t, repo.RecordTransition(ctx, tr))
	assert.NotEmpty(t, tr.ID)

	created := time.Date(2023, 12, 18, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM appeal_transitions WHERE appeal_id = $1")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "appeal_id", "from_status", "to_status", "actor", "created_at"}).
			AddRow("t1", "1", "UNFILED", "ACCEPTED", "admin", created))

	history, err := repo.ListTransitions(ctx, "1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.AppealStatusAccepted, history[0].To)
	assert.Equal(t, created, history[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
