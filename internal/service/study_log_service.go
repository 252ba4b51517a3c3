package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edulog-api/internal/dto"
	"github.com/noah-isme/edulog-api/internal/models"
	appErrors "github.com/noah-isme/edulog-api/pkg/errors"
)

type studyLogStore interface {
	UpsertStudyLog(ctx context.Context, log *models.StudyLog) error
	CreateStudyTime(ctx context.Context, log *models.StudyTimeLog) error
	GetStudyTime(ctx context.Context, id string) (*models.StudyTimeLog, error)
	EndStudyTime(ctx context.Context, id string, durationMinutes int, endedAt time.Time) error
	UpsertSelfEvaluation(ctx context.Context, eval *models.SelfEvaluation) error
}

type subjectGetter interface {
	GetByID(ctx context.Context, id string) (*models.Subject, error)
}

// StudyLogService handles the student write path: daily logs, study
// timers, and self-evaluations. Writes invalidate the stats caches.
type StudyLogService struct {
	repo     studyLogStore
	subjects subjectGetter
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
}

// NewStudyLogService constructs the service.
func NewStudyLogService(repo studyLogStore, subjects subjectGetter, cache *CacheService, logger *zap.Logger) *StudyLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudyLogService{
		repo:     repo,
		subjects: subjects,
		cache:    cache,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock, used by tests.
func (s *StudyLogService) WithNow(now func() time.Time) *StudyLogService {
	if now != nil {
		s.now = now
	}
	return s
}

// AddStudyLog records today's log for a subject, replacing any earlier
// entry for the same day.
func (s *StudyLogService) AddStudyLog(ctx context.Context, studentID string, req dto.AddStudyLogRequest) (*models.StudyLog, error) {
	if len(req.Content) > models.MaxStudyLogContentLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("content exceeds %d characters", models.MaxStudyLogContentLength))
	}
	if err := s.ensureSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	now := s.now()
	log := &models.StudyLog{
		StudentID: studentID,
		SubjectID: req.SubjectID,
		Content:   req.Content,
		LogDate:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	if err := s.repo.UpsertStudyLog(ctx, log); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save study log")
	}
	s.invalidateStats(ctx, studentID)
	return log, nil
}

// StartStudyTime opens a running timer for the subject.
func (s *StudyLogService) StartStudyTime(ctx context.Context, studentID string, req dto.StartStudyTimeRequest) (*models.StudyTimeLog, error) {
	if err := s.ensureSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}
	log := &models.StudyTimeLog{
		StudentID: studentID,
		SubjectID: req.SubjectID,
		StartedAt: s.now(),
	}
	if err := s.repo.CreateStudyTime(ctx, log); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start study timer")
	}
	return log, nil
}

// EndStudyTime closes a running timer with the reported duration. Only
// the timer's owner may close it, and a timer may be closed once.
func (s *StudyLogService) EndStudyTime(ctx context.Context, studentID string, req dto.EndStudyTimeRequest) (*models.StudyTimeLog, error) {
	if req.DurationMinutes <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duration must be positive")
	}

	log, err := s.repo.GetStudyTime(ctx, req.LogID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "study timer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study timer")
	}
	if log.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "study timer belongs to another student")
	}
	if log.EndedAt != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "study timer already ended")
	}

	endedAt := s.now()
	if err := s.repo.EndStudyTime(ctx, log.ID, req.DurationMinutes, endedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end study timer")
	}
	log.DurationMinutes = req.DurationMinutes
	log.EndedAt = &endedAt

	s.invalidateStats(ctx, studentID)
	return log, nil
}

// AddSelfEvaluation records today's self-evaluation, replacing any
// earlier entry for the same day.
func (s *StudyLogService) AddSelfEvaluation(ctx context.Context, studentID string, req dto.AddSelfEvaluationRequest) (*models.SelfEvaluation, error) {
	for name, level := range map[string]int{
		"satisfaction": req.Satisfaction,
		"achievement":  req.Achievement,
		"focus":        req.Focus,
	} {
		if level < 1 || level > 5 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be between 1 and 5", name))
		}
	}

	now := s.now()
	eval := &models.SelfEvaluation{
		StudentID:    studentID,
		EvalDate:     time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Satisfaction: req.Satisfaction,
		Achievement:  req.Achievement,
		Focus:        req.Focus,
		Reflection:   req.Reflection,
		Goals:        req.Goals,
	}
	if err := s.repo.UpsertSelfEvaluation(ctx, eval); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save self evaluation")
	}
	s.invalidateStats(ctx, studentID)
	return eval, nil
}

func (s *StudyLogService) ensureSubject(ctx context.Context, subjectID string) error {
	if s.subjects == nil {
		return nil
	}
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return nil
}

func (s *StudyLogService) invalidateStats(ctx context.Context, studentID string) {
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("stats:student:%s:*", studentID)); err != nil {
		s.logger.Warn("failed to invalidate student stats cache", zap.String("student_id", studentID), zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, "stats:overall"); err != nil {
		s.logger.Warn("failed to invalidate overall stats cache", zap.Error(err))
	}
}
