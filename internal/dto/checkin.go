package dto

import "github.com/noah-isme/lejian-admin-api/internal/models"

// CheckInCalendarResponse lists every course week.
type CheckInCalendarResponse struct {
	Title       string               `json:"title"`
	Hint        string               `json:"hint"`
	Weeks       []models.CheckInWeek `json:"weeks"`
	ActiveWeeks []int                `json:"activeWeeks"`
}

// CheckInDetailResponse is the attendance grid for one active week.
type CheckInDetailResponse struct {
	Week     int                   `json:"week"`
	Title    string                `json:"title"`
	Expected int                   `json:"expected"`
	Present  int                   `json:"present"`
	Absent   int                   `json:"absent"`
	Entries  []models.CheckInEntry `json:"entries"`
}

// CheckInViewResponse is either the calendar or the selected week.
type CheckInViewResponse struct {
	Mode     string                   `json:"mode"`
	Calendar *CheckInCalendarResponse `json:"calendar,omitempty"`
	Detail   *CheckInDetailResponse   `json:"detail,omitempty"`
}
