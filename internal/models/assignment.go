package models

import "time"

// Assignment is a task handed out to students for a subject.
type Assignment struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	SubjectID   string     `db:"subject_id" json:"subject_id"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedBy   string     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// AssignmentDetail joins subject and author names for list views.
type AssignmentDetail struct {
	Assignment
	SubjectName *string `db:"subject_name" json:"subject_name,omitempty"`
	AuthorName  *string `db:"author_name" json:"author_name,omitempty"`
}

// AssignmentFilter captures supported filters for listing assignments.
type AssignmentFilter struct {
	SubjectID string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
