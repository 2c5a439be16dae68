package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/lejian-admin-api/internal/dto"
	"github.com/noah-isme/lejian-admin-api/internal/models"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
)

const (
	checkInCalendarTitle = "签到监控 - 课程周次"
	checkInCalendarHint  = "请选择开启了签到的周次查看详情（灰色为未开启签到）。"
	weekOpenLabel        = "已开启签到"
	weekClosedLabel      = "未开启"
	presentLabel         = "已签到"
	absentLabel          = "未签到"
)

// RosterRepository supplies the course roster.
type RosterRepository interface {
	CheckInRoster(ctx context.Context) ([]models.RosterStudent, error)
}

// WeekSelection is the "selected week" slot of a dashboard session.
type WeekSelection interface {
	SelectedWeek() (int, bool)
	SetSelectedWeek(week int)
	ClearSelectedWeek()
}

// CheckInConfig is the course calendar.
type CheckInConfig struct {
	TotalWeeks  int
	ActiveWeeks []int
}

// CheckInService renders the check-in calendar and per-week grids.
type CheckInService struct {
	roster RosterRepository
	cache  *CacheService
	logger *zap.Logger
	total  int
	active map[int]bool
}

// NewCheckInService constructs the service. Active weeks outside 1..TotalWeeks are ignored.
func NewCheckInService(roster RosterRepository, cache *CacheService, logger *zap.Logger, cfg CheckInConfig) *CheckInService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TotalWeeks <= 0 {
		cfg.TotalWeeks = 16
	}
	active := make(map[int]bool, len(cfg.ActiveWeeks))
	for _, w := range cfg.ActiveWeeks {
		if w >= 1 && w <= cfg.TotalWeeks {
			active[w] = true
		}
	}
	return &CheckInService{roster: roster, cache: cache, logger: logger, total: cfg.TotalWeeks, active: active}
}

// IsPresent is the deterministic demo attendance flag for a student in a week.
// Non-numeric student ids count as 0.
func IsPresent(week int, studentID string) bool {
	n, err := strconv.Atoi(studentID)
	if err != nil {
		n = 0
	}
	v := (week*1000 + n) % 10
	if v < 0 {
		v = -v
	}
	return v > 2
}

// Weeks lists every course week with its active flag.
func (s *CheckInService) Weeks() []models.CheckInWeek {
	weeks := make([]models.CheckInWeek, 0, s.total)
	for w := 1; w <= s.total; w++ {
		label := weekClosedLabel
		if s.active[w] {
			label = weekOpenLabel
		}
		weeks = append(weeks, models.CheckInWeek{Week: w, Active: s.active[w], Label: label})
	}
	return weeks
}

// ActiveWeeks returns the enabled weeks in ascending order.
func (s *CheckInService) ActiveWeeks() []int {
	out := make([]int, 0, len(s.active))
	for w := range s.active {
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

// Calendar is the week-picker payload.
func (s *CheckInService) Calendar() *dto.CheckInCalendarResponse {
	return &dto.CheckInCalendarResponse{
		Title:       checkInCalendarTitle,
		Hint:        checkInCalendarHint,
		Weeks:       s.Weeks(),
		ActiveWeeks: s.ActiveWeeks(),
	}
}

// Detail builds the attendance grid for an active week. The bool reports a cache hit.
func (s *CheckInService) Detail(ctx context.Context, week int) (*dto.CheckInDetailResponse, bool, error) {
	if err := s.checkWeek(week); err != nil {
		return nil, false, err
	}

	var detail dto.CheckInDetailResponse
	hit, err := s.cache.Remember(ctx, fmt.Sprintf("checkin:week:%d", week), &detail, func() error {
		return s.buildDetail(ctx, week, &detail)
	})
	if err != nil {
		return nil, false, err
	}
	return &detail, hit, nil
}

// Select opens week in the session; only active weeks can be opened.
func (s *CheckInService) Select(ctx context.Context, sel WeekSelection, week int) (*dto.CheckInDetailResponse, bool, error) {
	detail, hit, err := s.Detail(ctx, week)
	if err != nil {
		return nil, false, err
	}
	sel.SetSelectedWeek(week)
	return detail, hit, nil
}

// ClearSelection returns the session to the calendar.
func (s *CheckInService) ClearSelection(sel WeekSelection) {
	sel.ClearSelectedWeek()
}

// View renders the calendar or the selected week.
func (s *CheckInService) View(ctx context.Context, sel WeekSelection) (*dto.CheckInViewResponse, bool, error) {
	if week, ok := sel.SelectedWeek(); ok {
		detail, hit, err := s.Detail(ctx, week)
		if err == nil {
			return &dto.CheckInViewResponse{Mode: dto.ViewModeDetail, Detail: detail}, hit, nil
		}
		s.logger.Debug("dropping stale week selection", zap.Int("week", week), zap.Error(err))
		sel.ClearSelectedWeek()
	}
	return &dto.CheckInViewResponse{Mode: dto.ViewModeList, Calendar: s.Calendar()}, false, nil
}

func (s *CheckInService) checkWeek(week int) error {
	if week < 1 || week > s.total {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("week must be between 1 and %d", s.total))
	}
	if !s.active[week] {
		return appErrors.ErrWeekInactive
	}
	return nil
}

func (s *CheckInService) buildDetail(ctx context.Context, week int, out *dto.CheckInDetailResponse) error {
	roster, err := s.roster.CheckInRoster(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	*out = dto.CheckInDetailResponse{
		Week:     week,
		Title:    fmt.Sprintf("第 %d 周签到详情", week),
		Expected: len(roster),
		Entries:  make([]models.CheckInEntry, 0, len(roster)),
	}
	for _, student := range roster {
		present := IsPresent(week, student.ID)
		label := absentLabel
		if present {
			label = presentLabel
			out.Present++
		} else {
			out.Absent++
		}
		out.Entries = append(out.Entries, models.CheckInEntry{
			StudentID: student.ID,
			Name:      student.Name,
			Present:   present,
			Label:     label,
		})
	}
	return nil
}
