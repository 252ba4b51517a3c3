package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edulog-api/internal/models"
	appErrors "github.com/noah-isme/edulog-api/pkg/errors"
)

type progressRepository interface {
	Upsert(ctx context.Context, progress *models.AssignmentProgress) error
	GetByID(ctx context.Context, id string) (*models.AssignmentProgress, error)
	Grade(ctx context.Context, id string, score int, feedback *string, gradedAt time.Time) error
	ListByStudent(ctx context.Context, studentID string) ([]models.ProgressDetail, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.ProgressDetail, error)
}

type assignmentGetter interface {
	GetByID(ctx context.Context, id string) (*models.AssignmentDetail, error)
}

// SubmitProgressRequest captures a student's submission.
type SubmitProgressRequest struct {
	AssignmentID string  `json:"assignment_id" validate:"required,uuid4"`
	Submission   *string `json:"submission,omitempty"`
}

// GradeProgressRequest records a grade on a submission.
type GradeProgressRequest struct {
	Score    int     `json:"score" validate:"min=0,max=100"`
	Feedback *string `json:"feedback,omitempty"`
}

// ProgressService handles assignment submissions and grading.
type ProgressService struct {
	repo        progressRepository
	assignments assignmentGetter
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewProgressService creates a new progress service.
func NewProgressService(repo progressRepository, assignments assignmentGetter, validate *validator.Validate, logger *zap.Logger) *ProgressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{
		repo:        repo,
		assignments: assignments,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit records or replaces a student's submission. Resubmission
// moves the row back to SUBMITTED and clears any earlier grade.
func (s *ProgressService) Submit(ctx context.Context, studentID string, req SubmitProgressRequest) (*models.AssignmentProgress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	if _, err := s.assignments.GetByID(ctx, req.AssignmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	progress := &models.AssignmentProgress{
		AssignmentID: req.AssignmentID,
		StudentID:    studentID,
		Status:       models.ProgressStatusSubmitted,
		Submission:   req.Submission,
		SubmittedAt:  s.now(),
	}
	if err := s.repo.Upsert(ctx, progress); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save submission")
	}
	return progress, nil
}

// Grade records a score and optional feedback on a submission.
func (s *ProgressService) Grade(ctx context.Context, progressID string, req GradeProgressRequest) (*models.AssignmentProgress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	progress, err := s.repo.GetByID(ctx, progressID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}

	gradedAt := s.now()
	if err := s.repo.Grade(ctx, progress.ID, req.Score, req.Feedback, gradedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grade submission")
	}

	score := req.Score
	progress.Status = models.ProgressStatusGraded
	progress.Score = &score
	progress.Feedback = req.Feedback
	progress.GradedAt = &gradedAt
	return progress, nil
}

// ListByStudent returns the student's submissions with assignment titles.
func (s *ProgressService) ListByStudent(ctx context.Context, studentID string) ([]models.ProgressDetail, error) {
	rows, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return rows, nil
}

// ListByAssignment returns all submissions for an assignment.
func (s *ProgressService) ListByAssignment(ctx context.Context, assignmentID string) ([]models.ProgressDetail, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	rows, err := s.repo.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return rows, nil
}
