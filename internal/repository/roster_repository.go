package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/lejian-admin-api/internal/models"
)

const checkInRosterSize = 18

// MaxClassSize bounds Students; ids are 2023001 through 2023999.
const MaxClassSize = 999

// RosterRepository serves the static course roster and attendance series.
type RosterRepository struct {
	names      []rosterName
	weekly     []int
	rosterSize int
}

// NewRosterRepository constructs the static roster.
func NewRosterRepository() *RosterRepository {
	return &RosterRepository{names: studentNames, weekly: weeklyAttendance, rosterSize: checkInRosterSize}
}

// CheckInRoster returns the students expected at each check-in.
func (r *RosterRepository) CheckInRoster(ctx context.Context) ([]models.RosterStudent, error) {
	return r.students(ctx, r.rosterSize)
}

// Students returns the first n students of the class list, ids 2023001 onward.
// Students past the named list get generated names.
func (r *RosterRepository) Students(ctx context.Context, n int) ([]models.RosterStudent, error) {
	return r.students(ctx, n)
}

// WeeklyAttendance returns per-week attendance percentages.
func (r *RosterRepository) WeeklyAttendance(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]int, len(r.weekly))
	copy(out, r.weekly)
	return out, nil
}

func (r *RosterRepository) students(ctx context.Context, n int) ([]models.RosterStudent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 0 || n > MaxClassSize {
		return nil, fmt.Errorf("class size must be between 0 and %d, requested %d", MaxClassSize, n)
	}
	out := make([]models.RosterStudent, n)
	for i := 0; i < n; i++ {
		out[i] = models.RosterStudent{ID: fmt.Sprintf("2023%03d", i+1)}
		if i < len(r.names) {
			out[i].Name, out[i].LatinName = r.names[i].name, r.names[i].latin
		} else {
			out[i].Name = fmt.Sprintf("学生%03d", i+1)
			out[i].LatinName = fmt.Sprintf("Student %03d", i+1)
		}
	}
	return out, nil
}
