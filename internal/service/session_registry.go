package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lejian-admin-api/internal/models"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
)

// DashboardSession is the per-login view state: the current page plus the appeal and
// week selections. All accessors are safe for concurrent requests on the same token.
type DashboardSession struct {
	ID        string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu             sync.RWMutex
	view           models.DashboardView
	selectedAppeal string
	selectedWeek   int
}

func newDashboardSession(username string, now time.Time, ttl time.Duration) *DashboardSession {
	return &DashboardSession{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		view:      models.ViewProfile,
	}
}

// View returns the current dashboard page.
func (s *DashboardSession) View() models.DashboardView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetView switches the current page.
func (s *DashboardSession) SetView(v models.DashboardView) error {
	if !v.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown dashboard view")
	}
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	return nil
}

// SelectedAppeal returns the appeal open in detail mode.
func (s *DashboardSession) SelectedAppeal() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedAppeal, s.selectedAppeal != ""
}

// SetSelectedAppeal enters detail mode for id.
func (s *DashboardSession) SetSelectedAppeal(id string) {
	s.mu.Lock()
	s.selectedAppeal = id
	s.mu.Unlock()
}

// ClearSelectedAppeal returns to list mode.
func (s *DashboardSession) ClearSelectedAppeal() {
	s.mu.Lock()
	s.selectedAppeal = ""
	s.mu.Unlock()
}

// SelectedWeek returns the check-in week open in detail mode.
func (s *DashboardSession) SelectedWeek() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedWeek, s.selectedWeek > 0
}

// SetSelectedWeek opens week.
func (s *DashboardSession) SetSelectedWeek(week int) {
	s.mu.Lock()
	s.selectedWeek = week
	s.mu.Unlock()
}

// ClearSelectedWeek returns to the calendar.
func (s *DashboardSession) ClearSelectedWeek() {
	s.mu.Lock()
	s.selectedWeek = 0
	s.mu.Unlock()
}

// SessionRegistry holds live dashboard sessions keyed by id.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*DashboardSession
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRegistry constructs an empty registry; sessions live for ttl.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionRegistry{sessions: make(map[string]*DashboardSession), ttl: ttl, now: time.Now}
}

// Create starts a session for username, pruning expired ones.
func (r *SessionRegistry) Create(username string) *DashboardSession {
	now := r.now().UTC()
	session := newDashboardSession(username, now, r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
		}
	}
	r.sessions[session.ID] = session
	return session
}

// Get returns a live session.
func (r *SessionRegistry) Get(id string) (*DashboardSession, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrSessionExpired
	}
	if r.now().UTC().After(session.ExpiresAt) {
		r.Delete(id)
		return nil, appErrors.ErrSessionExpired
	}
	return session, nil
}

// Delete drops a session; unknown ids are ignored.
func (r *SessionRegistry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of held sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
