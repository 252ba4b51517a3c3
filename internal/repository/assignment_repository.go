package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edulog-api/internal/models"
)

// AssignmentRepository provides persistence for assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List returns assignments with subject and author names joined.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error) {
	base := `FROM assignments a
LEFT JOIN subjects s ON s.id = a.subject_id
LEFT JOIN users u ON u.id = a.created_by
WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("a.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(a.title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"title":      "a.title",
		"due_date":   "a.due_date",
		"created_at": "a.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "a.due_date"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT a.id, a.title, a.description, a.subject_id, a.due_date, a.created_by, a.created_at, a.updated_at,
s.name AS subject_name, u.full_name AS author_name
%s ORDER BY %s %s NULLS LAST LIMIT %d OFFSET %d`, base, column, sortOrder, pageSize, offset)
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}
	return assignments, total, nil
}

// GetByID returns an assignment with joined names.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	const query = `SELECT a.id, a.title, a.description, a.subject_id, a.due_date, a.created_by, a.created_at, a.updated_at,
s.name AS subject_name, u.full_name AS author_name
FROM assignments a
LEFT JOIN subjects s ON s.id = a.subject_id
LEFT JOIN users u ON u.id = a.created_by
WHERE a.id = $1`
	var assignment models.AssignmentDetail
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &assignment, nil
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now
	const query = `INSERT INTO assignments (id, title, description, subject_id, due_date, created_by, created_at, updated_at)
VALUES (:id, :title, :description, :subject_id, :due_date, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update modifies an existing assignment.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET title = :title, description = :description, subject_id = :subject_id,
due_date = :due_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment and its progress rows.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete assignment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM assignment_progress WHERE assignment_id = $1", id); err != nil {
		return fmt.Errorf("delete assignment progress: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM assignments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete assignment: %w", err)
	}
	return nil
}
