package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edulog-api/internal/models"
	appErrors "github.com/noah-isme/edulog-api/pkg/errors"
)

type studentRepoStub struct {
	users      map[string]*models.User
	byEmail    map[string]*models.User
	lastFilter models.UserFilter
	created    *models.User
	updated    *models.User
	deletedID  string
}

func newStudentRepoStub() *studentRepoStub {
	return &studentRepoStub{
		users:   map[string]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (r *studentRepoStub) List(_ context.Context, filter models.UserFilter) ([]models.User, int, error) {
	r.lastFilter = filter
	var out []models.User
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (r *studentRepoStub) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (r *studentRepoStub) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (r *studentRepoStub) Create(_ context.Context, user *models.User) error {
	r.created = user
	return nil
}

func (r *studentRepoStub) Update(_ context.Context, user *models.User) error {
	r.updated = user
	return nil
}

func (r *studentRepoStub) Delete(_ context.Context, id string) error {
	r.deletedID = id
	return nil
}

func gradePtr(g string) *string { return &g }

func TestStudentServiceListForcesStudentRole(t *testing.T) {
	repo := newStudentRepoStub()
	repo.users["u1"] = &models.User{ID: "u1", Role: models.RoleStudent, FullName: "Ana"}
	repo.users["u2"] = &models.User{ID: "u2", Role: models.RoleAdmin, FullName: "Root"}
	svc := NewStudentService(repo, nil, nil)

	students, pagination, err := svc.List(context.Background(), models.UserFilter{Page: 1, PageSize: 20})

	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.Role)
	assert.Equal(t, models.RoleStudent, *repo.lastFilter.Role)
	require.Len(t, students, 1)
	assert.Equal(t, "Ana", students[0].FullName)
	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.TotalItems)
}

func TestStudentServiceGetRejectsNonStudent(t *testing.T) {
	repo := newStudentRepoStub()
	repo.users["admin-1"] = &models.User{ID: "admin-1", Role: models.RoleAdmin}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Get(context.Background(), "admin-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestStudentServiceCreate(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		Email:    "  Ana@School.EDU ",
		Password: "correct-horse",
		FullName: " Ana Kim ",
		Grade:    gradePtr("10"),
	})

	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "ana@school.edu", student.Email)
	assert.Equal(t, "Ana Kim", student.FullName)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.True(t, student.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("correct-horse")))
}

func TestStudentServiceCreateRejectsInvalidPayload(t *testing.T) {
	svc := NewStudentService(newStudentRepoStub(), nil, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		Email:    "not-an-email",
		Password: "short",
		FullName: "Ana",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	repo := newStudentRepoStub()
	repo.byEmail["ana@school.edu"] = &models.User{ID: "u1"}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		Email:    "ana@school.edu",
		Password: "correct-horse",
		FullName: "Ana",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}

func TestStudentServiceUpdate(t *testing.T) {
	repo := newStudentRepoStub()
	repo.users["u1"] = &models.User{ID: "u1", Role: models.RoleStudent, FullName: "Ana", Active: true}
	svc := NewStudentService(repo, nil, nil)

	inactive := false
	student, err := svc.Update(context.Background(), "u1", UpdateStudentRequest{
		FullName: "Ana Kim",
		Grade:    gradePtr("11"),
		Active:   &inactive,
	})

	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "Ana Kim", student.FullName)
	assert.Equal(t, "11", *student.Grade)
	assert.False(t, student.Active)
}

func TestStudentServiceUpdateRejectsMissingName(t *testing.T) {
	repo := newStudentRepoStub()
	repo.users["u1"] = &models.User{ID: "u1", Role: models.RoleStudent}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Update(context.Background(), "u1", UpdateStudentRequest{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := newStudentRepoStub()
	repo.users["u1"] = &models.User{ID: "u1", Role: models.RoleStudent}
	svc := NewStudentService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.Equal(t, "u1", repo.deletedID)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
