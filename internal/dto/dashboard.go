package dto

import "github.com/noah-isme/lejian-admin-api/internal/models"

// NavItem is one sidebar entry.
type NavItem struct {
	ID     models.DashboardView `json:"id"`
	Label  string               `json:"label"`
	Icon   string               `json:"icon"`
	Active bool                 `json:"active"`
}

// Greeting is the header badge for the signed-in operator.
type Greeting struct {
	Text    string `json:"text"`
	Initial string `json:"initial"`
}

// DashboardShellResponse is the frame around the current view.
type DashboardShellResponse struct {
	Title       string               `json:"title"`
	CurrentView models.DashboardView `json:"currentView"`
	Navigation  []NavItem            `json:"navigation"`
	Greeting    Greeting             `json:"greeting"`
}

// SwitchViewRequest changes the current view.
type SwitchViewRequest struct {
	View string `json:"view" validate:"required,oneof=profile appeals checkin students"`
}

// DashboardContentResponse wraps the current view's payload.
type DashboardContentResponse struct {
	View    models.DashboardView `json:"view"`
	Content interface{}          `json:"content"`
}
