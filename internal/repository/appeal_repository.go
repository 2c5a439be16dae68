package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lejian-admin-api/internal/models"
)

// MemoryAppealRepository is the in-process appeal store. Records keep insertion order and
// only their status is ever rewritten.
type MemoryAppealRepository struct {
	mu          sync.RWMutex
	order       []string
	byID        map[string]*models.Appeal
	transitions []models.AppealTransition
}

// NewMemoryAppealRepository seeds the store. Duplicate or empty ids are rejected.
func NewMemoryAppealRepository(seed []models.Appeal) (*MemoryAppealRepository, error) {
	repo := &MemoryAppealRepository{
		order: make([]string, 0, len(seed)),
		byID:  make(map[string]*models.Appeal, len(seed)),
	}
	for i := range seed {
		appeal := seed[i]
		if appeal.ID == "" {
			return nil, fmt.Errorf("seed appeal at index %d has no id", i)
		}
		if _, exists := repo.byID[appeal.ID]; exists {
			return nil, fmt.Errorf("duplicate appeal id %q", appeal.ID)
		}
		if !appeal.Status.Valid() {
			return nil, fmt.Errorf("appeal %q has invalid status", appeal.ID)
		}
		repo.order = append(repo.order, appeal.ID)
		repo.byID[appeal.ID] = &appeal
	}
	return repo, nil
}

// List returns copies of all appeals in insertion order.
func (r *MemoryAppealRepository) List(ctx context.Context) ([]models.Appeal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Appeal, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out, nil
}

// GetByID returns a copy of the appeal or sql.ErrNoRows.
func (r *MemoryAppealRepository) GetByID(ctx context.Context, id string) (*models.Appeal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	appeal, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *appeal
	return &copied, nil
}

// SetStatus overwrites the status in place and returns the previous value.
func (r *MemoryAppealRepository) SetStatus(ctx context.Context, id string, status models.AppealStatus) (models.AppealStatus, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !status.Valid() {
		return 0, fmt.Errorf("invalid appeal status %d", uint8(status))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	appeal, ok := r.byID[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	previous := appeal.Status
	appeal.Status = status
	return previous, nil
}

// RecordTransition appends to the status history.
func (r *MemoryAppealRepository) RecordTransition(ctx context.Context, t *models.AppealTransition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, *t)
	return nil
}

// ListTransitions returns the history of one appeal, oldest first.
func (r *MemoryAppealRepository) ListTransitions(ctx context.Context, appealID string) ([]models.AppealTransition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.AppealTransition, 0)
	for _, t := range r.transitions {
		if t.AppealID == appealID {
			out = append(out, t)
		}
	}
	return out, nil
}
