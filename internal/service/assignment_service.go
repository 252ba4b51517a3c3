package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edulog-api/internal/models"
	appErrors "github.com/noah-isme/edulog-api/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error)
	GetByID(ctx context.Context, id string) (*models.AssignmentDetail, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

// CreateAssignmentRequest captures fields for creating assignments.
type CreateAssignmentRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description,omitempty"`
	SubjectID   string     `json:"subject_id" validate:"required,uuid4"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateAssignmentRequest modifies assignment fields.
type UpdateAssignmentRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description,omitempty"`
	SubjectID   string     `json:"subject_id" validate:"required,uuid4"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// AssignmentService handles assignment workflows.
type AssignmentService struct {
	repo      assignmentRepository
	subjects  subjectGetter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(repo assignmentRepository, subjects subjectGetter, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, subjects: subjects, validator: validate, logger: logger}
}

// List returns paginated assignments.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, *models.Pagination, error) {
	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	pagination := models.NewPagination(filter.Page, filter.PageSize, total)
	return assignments, pagination, nil
}

// Get returns an assignment by identifier.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// Create adds a new assignment authored by the given user.
func (s *AssignmentService) Create(ctx context.Context, authorID string, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if err := s.ensureSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		SubjectID:   req.SubjectID,
		DueDate:     req.DueDate,
		CreatedBy:   authorID,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// Update modifies an existing assignment.
func (s *AssignmentService) Update(ctx context.Context, id string, req UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if err := s.ensureSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	assignment := existing.Assignment
	assignment.Title = strings.TrimSpace(req.Title)
	assignment.Description = req.Description
	assignment.SubjectID = req.SubjectID
	assignment.DueDate = req.DueDate

	if err := s.repo.Update(ctx, &assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return &assignment, nil
}

// Delete removes an assignment together with its submissions.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

func (s *AssignmentService) ensureSubject(ctx context.Context, subjectID string) error {
	if s.subjects == nil {
		return nil
	}
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return nil
}
