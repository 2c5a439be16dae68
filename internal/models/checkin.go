package models

// RosterStudent is a student enrolled in the course roster.
type RosterStudent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LatinName string `json:"-"`
}

// CheckInWeek is one course week on the check-in calendar.
type CheckInWeek struct {
	Week   int    `json:"week"`
	Active bool   `json:"active"`
	Label  string `json:"label"`
}

// CheckInEntry is one student's check-in flag for a week.
type CheckInEntry struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Present   bool   `json:"present"`
	Label     string `json:"label"`
}
