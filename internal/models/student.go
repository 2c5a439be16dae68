package models

// StudentStat aggregates one student's running record for the term.
type StudentStat struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	AttendanceRate int     `json:"attendanceRate"`
	TotalDistance  float64 `json:"totalDistance"`
	AvgPace        string  `json:"avgPace"`
	LatinName      string  `json:"-"`
}
