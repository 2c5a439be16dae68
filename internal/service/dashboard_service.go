package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/lejian-admin-api/internal/dto"
	"github.com/noah-isme/lejian-admin-api/internal/models"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
)

// ViewSession is the part of a dashboard session the shell needs.
type ViewSession interface {
	AppealSelection
	WeekSelection
	View() models.DashboardView
	SetView(v models.DashboardView) error
}

type profileProvider interface {
	Profile(username string) models.AdminProfile
}

type appealViewer interface {
	View(ctx context.Context, sel AppealSelection) (*dto.AppealViewResponse, error)
}

type checkInViewer interface {
	View(ctx context.Context, sel WeekSelection) (*dto.CheckInViewResponse, bool, error)
}

type statsViewer interface {
	Snapshot(ctx context.Context) (*dto.StudentStatsResponse, bool, error)
}

// DashboardService is the shell: navigation, greeting and view dispatch.
type DashboardService struct {
	profiles  profileProvider
	appeals   appealViewer
	checkIn   checkInViewer
	stats     statsViewer
	validator *validator.Validate
}

// NewDashboardService constructs the shell.
func NewDashboardService(profiles profileProvider, appeals appealViewer, checkIn checkInViewer, stats statsViewer, validate *validator.Validate) *DashboardService {
	if validate == nil {
		validate = validator.New()
	}
	return &DashboardService{profiles: profiles, appeals: appeals, checkIn: checkIn, stats: stats, validator: validate}
}

// Shell describes the navigation state for the session.
func (s *DashboardService) Shell(session ViewSession, username string) *dto.DashboardShellResponse {
	current := session.View()
	nav := make([]dto.NavItem, 0, len(models.DashboardViews()))
	for _, v := range models.DashboardViews() {
		nav = append(nav, dto.NavItem{ID: v, Label: v.Label(), Icon: v.Icon(), Active: v == current})
	}
	return &dto.DashboardShellResponse{
		Title:       current.Label(),
		CurrentView: current,
		Navigation:  nav,
		Greeting:    greetingFor(username),
	}
}

// SwitchView changes the current view and returns the updated shell.
func (s *DashboardService) SwitchView(session ViewSession, username string, req dto.SwitchViewRequest) (*dto.DashboardShellResponse, error) {
	req.View = strings.ToLower(strings.TrimSpace(req.View))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "view must be one of profile, appeals, checkin, students")
	}
	if err := session.SetView(models.DashboardView(req.View)); err != nil {
		return nil, err
	}
	return s.Shell(session, username), nil
}

// Profile returns the operator card.
func (s *DashboardService) Profile(username string) models.AdminProfile {
	return s.profiles.Profile(username)
}

// Content renders the current view. The bool reports a cache hit.
func (s *DashboardService) Content(ctx context.Context, session ViewSession, username string) (*dto.DashboardContentResponse, bool, error) {
	view := session.View()
	resp := &dto.DashboardContentResponse{View: view}
	switch view {
	case models.ViewProfile:
		resp.Content = s.Profile(username)
		return resp, false, nil
	case models.ViewAppeals:
		content, err := s.appeals.View(ctx, session)
		if err != nil {
			return nil, false, err
		}
		resp.Content = content
		return resp, false, nil
	case models.ViewCheckIn:
		content, hit, err := s.checkIn.View(ctx, session)
		if err != nil {
			return nil, false, err
		}
		resp.Content = content
		return resp, hit, nil
	case models.ViewStudents:
		content, hit, err := s.stats.Snapshot(ctx)
		if err != nil {
			return nil, false, err
		}
		resp.Content = content
		return resp, hit, nil
	default:
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "unknown dashboard view")
	}
}

func greetingFor(username string) dto.Greeting {
	initial := ""
	for _, r := range username {
		initial = string(unicode.ToUpper(r))
		break
	}
	return dto.Greeting{Text: "欢迎, " + username, Initial: initial}
}
