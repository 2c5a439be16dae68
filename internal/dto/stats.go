package dto

// StatsSummary holds the headline cards.
type StatsSummary struct {
	AverageAttendance float64 `json:"averageAttendance"`
	TotalDistance     float64 `json:"totalDistance"`
	PerCapitaDistance float64 `json:"perCapitaDistance"`
	AtRiskCount       int     `json:"atRiskCount"`
	AtRiskThreshold   int     `json:"atRiskThreshold"`
	StudentCount      int     `json:"studentCount"`
}

// TrendPoint is one bar of the weekly attendance chart.
type TrendPoint struct {
	Week   int     `json:"week"`
	Rate   int     `json:"rate"`
	Band   string  `json:"band"`
	Height float64 `json:"height"`
}

// LeaderboardEntry is a top-distance runner.
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	RankStyle     string  `json:"rankStyle"`
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TotalDistance float64 `json:"totalDistance"`
	AvgPace       string  `json:"avgPace"`
}

// StudentRow is one line of the detailed table.
type StudentRow struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Initial        string  `json:"initial"`
	AttendanceRate int     `json:"attendanceRate"`
	AttendanceBand string  `json:"attendanceBand"`
	TotalDistance  float64 `json:"totalDistance"`
	AvgPace        string  `json:"avgPace"`
	Status         string  `json:"status"`
	AtRisk         bool    `json:"atRisk"`
}

// StudentStatsResponse is the statistics page.
type StudentStatsResponse struct {
	Summary     StatsSummary       `json:"summary"`
	Trend       []TrendPoint       `json:"trend"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Students    []StudentRow       `json:"students"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
