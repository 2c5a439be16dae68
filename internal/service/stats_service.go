package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/lejian-admin-api/internal/dto"
	"github.com/noah-isme/lejian-admin-api/internal/models"
	appErrors "github.com/noah-isme/lejian-admin-api/pkg/errors"
	"github.com/noah-isme/lejian-admin-api/pkg/export"
)

const (
	statusNormal  = "正常"
	statusWarning = "预警"
	leaderboardN  = 5
	trendBarScale = 1.5
)

// maxStudentCount matches the 2023001..2023999 id range.
const maxStudentCount = 999

var rankStyles = []string{
	"bg-yellow-100 text-yellow-700",
	"bg-gray-100 text-gray-700",
	"bg-orange-100 text-orange-700",
}

const defaultRankStyle = "bg-blue-50 text-blue-600"

// StudentSource supplies the class list and the weekly attendance series.
type StudentSource interface {
	Students(ctx context.Context, n int) ([]models.RosterStudent, error)
	WeeklyAttendance(ctx context.Context) ([]int, error)
}

// Exporter renders a table into a downloadable document.
type Exporter interface {
	ContentType() string
	Extension() string
	Render(t export.Table) ([]byte, error)
}

// StatsConfig tunes the generator.
type StatsConfig struct {
	Seed            int64
	StudentCount    int
	AtRiskThreshold int
}

// StatsService builds the student statistics page from seeded demo data.
type StatsService struct {
	source    StudentSource
	cache     *CacheService
	exporters map[string]Exporter
	logger    *zap.Logger
	config    StatsConfig
}

// NewStatsService constructs the service with CSV and PDF exporters.
func NewStatsService(source StudentSource, cache *CacheService, logger *zap.Logger, cfg StatsConfig) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StudentCount <= 0 {
		cfg.StudentCount = 20
	}
	if cfg.StudentCount > maxStudentCount {
		logger.Warn("student count clamped", zap.Int("requested", cfg.StudentCount), zap.Int("max", maxStudentCount))
		cfg.StudentCount = maxStudentCount
	}
	if cfg.AtRiskThreshold <= 0 {
		cfg.AtRiskThreshold = 70
	}
	csvExp := export.NewCSVExporter()
	pdfExp := export.NewPDFExporter()
	return &StatsService{
		source: source,
		cache:  cache,
		exporters: map[string]Exporter{
			csvExp.Extension(): csvExp,
			pdfExp.Extension(): pdfExp,
		},
		logger: logger,
		config: cfg,
	}
}

// Generate fabricates the per-student records, sorted by total distance descending.
// The same seed always yields the same records.
func (s *StatsService) Generate(ctx context.Context) ([]models.StudentStat, error) {
	students, err := s.source.Students(ctx, s.config.StudentCount)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	rng := rand.New(rand.NewSource(s.config.Seed)) //nolint:gosec
	stats := make([]models.StudentStat, 0, len(students))
	for _, st := range students {
		stats = append(stats, models.StudentStat{
			ID:             st.ID,
			Name:           st.Name,
			AttendanceRate: rng.Intn(40) + 60,
			TotalDistance:  round1(rng.Float64()*150 + 50),
			AvgPace:        fmt.Sprintf("%d'%02d\"", rng.Intn(3)+5, rng.Intn(60)),
			LatinName:      st.LatinName,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalDistance > stats[j].TotalDistance
	})
	return stats, nil
}

// Snapshot returns the full statistics page; the bool reports a cache hit.
func (s *StatsService) Snapshot(ctx context.Context) (*dto.StudentStatsResponse, bool, error) {
	var resp dto.StudentStatsResponse
	hit, err := s.cache.Remember(ctx, fmt.Sprintf("stats:%d:%d", s.config.Seed, s.config.StudentCount), &resp, func() error {
		return s.build(ctx, &resp)
	})
	if err != nil {
		return nil, false, err
	}
	return &resp, hit, nil
}

// Export renders the student table as csv or pdf.
func (s *StatsService) Export(ctx context.Context, format string) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	stats, err := s.Generate(ctx)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title:   "Student running statistics",
		Columns: []string{"Student ID", "Name", "Attendance (%)", "Distance (km)", "Avg pace", "Status"},
		Rows:    make([][]string, 0, len(stats)),
	}
	for _, st := range stats {
		status := "normal"
		if s.atRisk(st) {
			status = "warning"
		}
		// PDF core fonts have no CJK glyphs.
		name := st.LatinName
		if name == "" {
			name = st.Name
		}
		table.Rows = append(table.Rows, []string{
			st.ID,
			name,
			strconv.Itoa(st.AttendanceRate),
			strconv.FormatFloat(st.TotalDistance, 'f', 1, 64),
			st.AvgPace,
			status,
		})
	}

	body, err := exporter.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("student stats exported", zap.String("format", format), zap.Int("rows", len(table.Rows)))
	return &dto.ExportFile{
		Filename:    "student-stats." + exporter.Extension(),
		ContentType: exporter.ContentType(),
		Body:        body,
	}, nil
}

func (s *StatsService) build(ctx context.Context, out *dto.StudentStatsResponse) error {
	stats, err := s.Generate(ctx)
	if err != nil {
		return err
	}
	weekly, err := s.source.WeeklyAttendance(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly attendance")
	}

	*out = dto.StudentStatsResponse{
		Summary:     s.summarize(stats),
		Trend:       trendOf(weekly),
		Leaderboard: leaderboardOf(stats),
		Students:    make([]dto.StudentRow, 0, len(stats)),
	}
	for _, st := range stats {
		atRisk := s.atRisk(st)
		status := statusNormal
		if atRisk {
			status = statusWarning
		}
		out.Students = append(out.Students, dto.StudentRow{
			ID:             st.ID,
			Name:           st.Name,
			Initial:        initialOf(st.Name),
			AttendanceRate: st.AttendanceRate,
			AttendanceBand: attendanceBand(st.AttendanceRate),
			TotalDistance:  st.TotalDistance,
			AvgPace:        st.AvgPace,
			Status:         status,
			AtRisk:         atRisk,
		})
	}
	return nil
}

func (s *StatsService) summarize(stats []models.StudentStat) dto.StatsSummary {
	summary := dto.StatsSummary{AtRiskThreshold: s.config.AtRiskThreshold, StudentCount: len(stats)}
	if len(stats) == 0 {
		return summary
	}
	var attendance int
	var distance float64
	for _, st := range stats {
		attendance += st.AttendanceRate
		distance += st.TotalDistance
		if s.atRisk(st) {
			summary.AtRiskCount++
		}
	}
	summary.AverageAttendance = round1(float64(attendance) / float64(len(stats)))
	summary.TotalDistance = round1(distance)
	summary.PerCapitaDistance = round1(summary.TotalDistance / float64(len(stats)))
	return summary
}

func (s *StatsService) atRisk(st models.StudentStat) bool {
	return st.AttendanceRate < s.config.AtRiskThreshold
}

func trendOf(weekly []int) []dto.TrendPoint {
	points := make([]dto.TrendPoint, 0, len(weekly))
	for i, rate := range weekly {
		band := "low"
		switch {
		case rate >= 90:
			band = "high"
		case rate >= 80:
			band = "medium"
		}
		points = append(points, dto.TrendPoint{Week: i + 1, Rate: rate, Band: band, Height: float64(rate) * trendBarScale})
	}
	return points
}

func leaderboardOf(stats []models.StudentStat) []dto.LeaderboardEntry {
	n := leaderboardN
	if len(stats) < n {
		n = len(stats)
	}
	board := make([]dto.LeaderboardEntry, 0, n)
	for i := 0; i < n; i++ {
		style := defaultRankStyle
		if i < len(rankStyles) {
			style = rankStyles[i]
		}
		board = append(board, dto.LeaderboardEntry{
			Rank:          i + 1,
			RankStyle:     style,
			ID:            stats[i].ID,
			Name:          stats[i].Name,
			TotalDistance: stats[i].TotalDistance,
			AvgPace:       stats[i].AvgPace,
		})
	}
	return board
}

func attendanceBand(rate int) string {
	switch {
	case rate >= 90:
		return "high"
	case rate >= 70:
		return "normal"
	default:
		return "low"
	}
}

func initialOf(name string) string {
	for _, r := range name {
		return string(r)
	}
	return ""
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
