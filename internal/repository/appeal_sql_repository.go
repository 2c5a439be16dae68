package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lejian-admin-api/internal/models"
)

// Schema is applied by EnsureSchema when the Postgres store is selected.
const Schema = `CREATE TABLE IF NOT EXISTS appeals (
	id           TEXT PRIMARY KEY,
	position     INTEGER NOT NULL,
	type         TEXT NOT NULL,
	student_name TEXT NOT NULL,
	student_id   TEXT NOT NULL,
	description  TEXT NOT NULL,
	status       TEXT NOT NULL CHECK (status IN ('UNFILED','ACCEPTED','RESOLVED','REJECTED')),
	submitted_on DATE NOT NULL
);
CREATE TABLE IF NOT EXISTS appeal_transitions (
	id          TEXT PRIMARY KEY,
	appeal_id   TEXT NOT NULL REFERENCES appeals(id),
	from_status TEXT NOT NULL,
	to_status   TEXT NOT NULL,
	actor       TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);`

const appealColumns = `id, type, student_name, student_id, description, status, submitted_on`

// AppealSQLRepository stores appeals in PostgreSQL. The position column preserves seed order.
type AppealSQLRepository struct {
	db *sqlx.DB
}

// NewAppealSQLRepository constructs the repository.
func NewAppealSQLRepository(db *sqlx.DB) *AppealSQLRepository {
	return &AppealSQLRepository{db: db}
}

// EnsureSchema creates the tables when missing.
func (r *AppealSQLRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure appeal schema: %w", err)
	}
	return nil
}

// Seed inserts the appeals that are not stored yet, keeping slice order as display order.
func (r *AppealSQLRepository) Seed(ctx context.Context, appeals []models.Appeal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO appeals (id, position, type, student_name, student_id, description, status, submitted_on)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`
	for i, a := range appeals {
		if _, err := tx.ExecContext(ctx, query, a.ID, i+1, a.Type, a.StudentName, a.StudentID, a.Description, a.Status, a.Date); err != nil {
			return fmt.Errorf("seed appeal %s: %w", a.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// List returns all appeals in display order.
func (r *AppealSQLRepository) List(ctx context.Context) ([]models.Appeal, error) {
	query := `SELECT ` + appealColumns + ` FROM appeals ORDER BY position ASC`
	var appeals []models.Appeal
	if err := r.db.SelectContext(ctx, &appeals, query); err != nil {
		return nil, fmt.Errorf("list appeals: %w", err)
	}
	return appeals, nil
}

// GetByID fetches one appeal; sql.ErrNoRows when absent.
func (r *AppealSQLRepository) GetByID(ctx context.Context, id string) (*models.Appeal, error) {
	query := `SELECT ` + appealColumns + ` FROM appeals WHERE id = $1`
	var appeal models.Appeal
	if err := r.db.GetContext(ctx, &appeal, query, id); err != nil {
		return nil, err
	}
	return &appeal, nil
}

// SetStatus locks the row, overwrites its status and returns the previous one.
func (r *AppealSQLRepository) SetStatus(ctx context.Context, id string, status models.AppealStatus) (models.AppealStatus, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var previous models.AppealStatus
	if err := tx.GetContext(ctx, &previous, `SELECT status FROM appeals WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sql.ErrNoRows
		}
		return 0, fmt.Errorf("lock appeal %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE appeals SET status = $1 WHERE id = $2`, status, id); err != nil {
		return 0, fmt.Errorf("update appeal status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit status update: %w", err)
	}
	return previous, nil
}

// RecordTransition inserts a status history row.
func (r *AppealSQLRepository) RecordTransition(ctx context.Context, t *models.AppealTransition) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO appeal_transitions (id, appeal_id, from_status, to_status, actor, created_at)
	VALUES (:id, :appeal_id, :from_status, :to_status, :actor, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("record appeal transition: %w", err)
	}
	return nil
}

// ListTransitions returns one appeal's history, oldest first.
func (r *AppealSQLRepository) ListTransitions(ctx context.Context, appealID string) ([]models.AppealTransition, error) {
	const query = `SELECT id, appeal_id, from_status, to_status, actor, created_at
	FROM appeal_transitions WHERE appeal_id = $1 ORDER BY created_at ASC`
	transitions := make([]models.AppealTransition, 0)
	if err := r.db.SelectContext(ctx, &transitions, query, appealID); err != nil {
		return nil, fmt.Errorf("list appeal transitions: %w", err)
	}
	return transitions, nil
}
