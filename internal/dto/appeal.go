package dto

import "github.com/noah-isme/lejian-admin-api/internal/models"

// AppealRow is one line of the appeal list.
type AppealRow struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	StudentName string              `json:"studentName"`
	Date        models.Date         `json:"date"`
	Status      models.AppealStatus `json:"status"`
	StatusLabel string              `json:"statusLabel"`
	StatusColor string              `json:"statusColor"`
}

// AppealSummary is the footer of the list: total records and how many are still unfiled.
type AppealSummary struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
}

// AppealListResponse is the list-mode payload.
type AppealListResponse struct {
	Items        []AppealRow   `json:"items"`
	Summary      AppealSummary `json:"summary"`
	EmptyMessage string        `json:"emptyMessage,omitempty"`
}

// AppealControl is one status button on the detail view.
type AppealControl struct {
	Action  models.AppealAction `json:"action"`
	Label   string              `json:"label"`
	Target  models.AppealStatus `json:"target"`
	Enabled bool                `json:"enabled"`
}

// AppealDetailResponse is the detail-mode payload.
type AppealDetailResponse struct {
	models.Appeal
	StatusLabel string          `json:"statusLabel"`
	StatusColor string          `json:"statusColor"`
	Controls    []AppealControl `json:"controls"`
}

// Appeal view modes.
const (
	ViewModeList   = "list"
	ViewModeDetail = "detail"
)

// AppealViewResponse is either the list or the selected appeal.
type AppealViewResponse struct {
	Mode   string                `json:"mode"`
	List   *AppealListResponse   `json:"list,omitempty"`
	Detail *AppealDetailResponse `json:"detail,omitempty"`
}

// UpdateAppealStatusRequest sets an appeal's status directly. Status accepts the
// wire code (case-insensitive) or the localized label.
type UpdateAppealStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AppealActionResponse reports the outcome of a detail-view control.
type AppealActionResponse struct {
	Changed bool                  `json:"changed"`
	Appeal  *AppealDetailResponse `json:"appeal"`
}
