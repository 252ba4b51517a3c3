package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edulog-api/internal/analytics"
	"github.com/noah-isme/edulog-api/internal/dto"
	"github.com/noah-isme/edulog-api/internal/models"
	appErrors "github.com/noah-isme/edulog-api/pkg/errors"
)

type studyDataRepository interface {
	ListStudyTimeEntries(ctx context.Context, studentID string, from, to time.Time) ([]models.StudyTimeEntry, error)
	ListAllStudyTimeEntries(ctx context.Context, from, to time.Time) ([]models.StudyTimeEntry, error)
	ListStudyLogs(ctx context.Context, studentID string, from, to time.Time) ([]models.StudyLogDetail, error)
	ListSelfEvaluations(ctx context.Context, studentID string, from, to time.Time) ([]models.SelfEvaluation, error)
}

type studentCounter interface {
	CountStudents(ctx context.Context) (total int, active int, err error)
}

// LearningStatsService composes the aggregation pipeline over raw
// study rows and serves the chart-ready stats views.
type LearningStatsService struct {
	repo     studyDataRepository
	users    studentCounter
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewLearningStatsService constructs the service.
func NewLearningStatsService(repo studyDataRepository, users studentCounter, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *LearningStatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LearningStatsService{
		repo:     repo,
		users:    users,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock, used by tests and report generation.
func (s *LearningStatsService) WithNow(now func() time.Time) *LearningStatsService {
	if now != nil {
		s.now = now
	}
	return s
}

// StudentStats builds the student self view for the requested period.
// The bool result reports whether the payload came from cache.
func (s *LearningStatsService) StudentStats(ctx context.Context, studentID string, period analytics.Period, page, pageSize int) (*dto.StudentStatsResponse, bool, error) {
	if studentID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	cacheKey := fmt.Sprintf("stats:student:%s:%s:%d:%d", studentID, period, page, pageSize)
	var cached dto.StudentStatsResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	r := analytics.ResolveRange(period, s.now())

	entries, err := s.fetchStudentEntries(ctx, studentID, r)
	if err != nil {
		return nil, false, err
	}
	evals, err := s.fetchEvaluations(ctx, studentID, r)
	if err != nil {
		return nil, false, err
	}
	logs, err := s.fetchStudyLogs(ctx, studentID, r)
	if err != nil {
		return nil, false, err
	}

	bySubject := analytics.GroupBySubject(entries)
	byDay := analytics.GroupByDay(entries)

	pageItems, pageMeta := analytics.Paginate(logs, page, pageSize)

	resp := &dto.StudentStatsResponse{
		StudentID:          studentID,
		Period:             string(period),
		Range:              dto.RangeInfo{Start: r.StartKey(), End: r.EndKey()},
		Summary:            analytics.ComputeSummary(bySubject, byDay, r),
		EvaluationAverages: analytics.EvaluationAverages(evals),
		DailySeries:        analytics.BuildDailySeries(byDay, r),
		EvaluationTrend:    analytics.BuildEvaluationTrend(evals),
		SubjectRanking:     analytics.BuildSubjectRanking(bySubject),
		StudyLogs:          pageItems,
		Pagination: &models.Pagination{
			Page:       pageMeta.Page,
			PageSize:   pageMeta.PageSize,
			TotalItems: pageMeta.TotalItems,
			TotalPages: pageMeta.TotalPages,
		},
	}

	if err := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache student stats", zap.String("student_id", studentID), zap.Error(err))
	}
	return resp, false, nil
}

// AdminStudentStats is the admin single-student view over a fixed
// 30-day window.
func (s *LearningStatsService) AdminStudentStats(ctx context.Context, studentID string) (*dto.StudentStatsResponse, bool, error) {
	return s.StudentStats(ctx, studentID, analytics.PeriodMonth, 1, 20)
}

// OverallStats builds the admin all-students view over a 30-day window.
func (s *LearningStatsService) OverallStats(ctx context.Context) (*dto.OverallStatsResponse, bool, error) {
	const cacheKey = "stats:overall"
	var cached dto.OverallStatsResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	r := analytics.ResolveRange(analytics.PeriodMonth, s.now())

	start := time.Now()
	rows, err := s.repo.ListAllStudyTimeEntries(ctx, r.Start, r.End.AddDate(0, 0, 1))
	s.metrics.ObserveDBQuery("all_study_time_entries", time.Since(start))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study time entries")
	}
	entries := toStudyEntries(rows)

	total, active, err := s.users.CountStudents(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	bySubject := analytics.GroupBySubject(entries)
	byDay := analytics.GroupByDay(entries)
	byStudent := analytics.GroupByStudent(entries)

	totalMinutes := 0
	for _, minutes := range byDay {
		totalMinutes += minutes
	}

	resp := &dto.OverallStatsResponse{
		Period:          string(analytics.PeriodMonth),
		Range:           dto.RangeInfo{Start: r.StartKey(), End: r.EndKey()},
		TotalStudents:   total,
		ActiveStudents:  active,
		TotalMinutes:    totalMinutes,
		TotalHours:      analytics.Hours(totalMinutes),
		DailySeries:     analytics.BuildDailySeries(byDay, r),
		SubjectTotals:   analytics.BuildSubjectRanking(bySubject),
		StudentRankings: analytics.BuildStudentRanking(byStudent),
	}

	if err := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache overall stats", zap.Error(err))
	}
	return resp, false, nil
}

// StudentReport wraps the student view as an exportable document.
func (s *LearningStatsService) StudentReport(ctx context.Context, studentID string, period analytics.Period) (*dto.StudentReportDocument, error) {
	stats, _, err := s.StudentStats(ctx, studentID, period, 1, 100)
	if err != nil {
		return nil, err
	}
	return &dto.StudentReportDocument{
		ReportType:  string(models.ReportTypeLearningStats),
		GeneratedAt: s.now().Format(time.RFC3339),
		Stats:       *stats,
	}, nil
}

// OverallReport wraps the admin overview as an exportable document.
func (s *LearningStatsService) OverallReport(ctx context.Context) (*dto.OverallReportDocument, error) {
	stats, _, err := s.OverallStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.OverallReportDocument{
		ReportType:  string(models.ReportTypeOverallStats),
		GeneratedAt: s.now().Format(time.RFC3339),
		Stats:       *stats,
	}, nil
}

func (s *LearningStatsService) fetchStudentEntries(ctx context.Context, studentID string, r analytics.DateRange) ([]analytics.StudyEntry, error) {
	start := time.Now()
	rows, err := s.repo.ListStudyTimeEntries(ctx, studentID, r.Start, r.End.AddDate(0, 0, 1))
	s.metrics.ObserveDBQuery("study_time_entries", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study time entries")
	}
	return toStudyEntries(rows), nil
}

func (s *LearningStatsService) fetchEvaluations(ctx context.Context, studentID string, r analytics.DateRange) ([]analytics.Evaluation, error) {
	start := time.Now()
	rows, err := s.repo.ListSelfEvaluations(ctx, studentID, r.Start, r.End)
	s.metrics.ObserveDBQuery("self_evaluations", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load self evaluations")
	}
	evals := make([]analytics.Evaluation, 0, len(rows))
	for _, row := range rows {
		evals = append(evals, analytics.Evaluation{
			Date:         row.EvalDate,
			Satisfaction: row.Satisfaction,
			Achievement:  row.Achievement,
			Focus:        row.Focus,
		})
	}
	return evals, nil
}

func (s *LearningStatsService) fetchStudyLogs(ctx context.Context, studentID string, r analytics.DateRange) ([]dto.StudyLogItem, error) {
	start := time.Now()
	rows, err := s.repo.ListStudyLogs(ctx, studentID, r.Start, r.End)
	s.metrics.ObserveDBQuery("study_logs", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study logs")
	}
	items := make([]dto.StudyLogItem, 0, len(rows))
	for _, row := range rows {
		name := analytics.UnknownSubject
		if row.SubjectName != nil && *row.SubjectName != "" {
			name = *row.SubjectName
		}
		items = append(items, dto.StudyLogItem{
			ID:          row.ID,
			SubjectID:   row.SubjectID,
			SubjectName: name,
			Content:     row.Content,
			LogDate:     analytics.DayKey(row.LogDate),
		})
	}
	return items, nil
}

func toStudyEntries(rows []models.StudyTimeEntry) []analytics.StudyEntry {
	entries := make([]analytics.StudyEntry, 0, len(rows))
	for _, row := range rows {
		name := ""
		if row.SubjectName != nil {
			name = *row.SubjectName
		}
		entries = append(entries, analytics.StudyEntry{
			StudentID:   row.StudentID,
			StudentName: row.StudentName,
			SubjectName: name,
			Date:        row.StartedAt,
			Minutes:     row.DurationMinutes,
		})
	}
	return entries
}
