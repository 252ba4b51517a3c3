package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/edulog-api/internal/dto"
	"github.com/noah-isme/edulog-api/internal/middleware"
	"github.com/noah-isme/edulog-api/internal/models"
)

type fakeStudyLogSrv struct {
	log       *models.StudyLog
	timer     *models.StudyTimeLog
	eval      *models.SelfEvaluation
	err       error
	lastOwner string
}

func (f *fakeStudyLogSrv) AddStudyLog(_ context.Context, studentID string, req dto.AddStudyLogRequest) (*models.StudyLog, error) {
	f.lastOwner = studentID
	return f.log, f.err
}

func (f *fakeStudyLogSrv) StartStudyTime(_ context.Context, studentID string, req dto.StartStudyTimeRequest) (*models.StudyTimeLog, error) {
	f.lastOwner = studentID
	return f.timer, f.err
}

func (f *fakeStudyLogSrv) EndStudyTime(_ context.Context, studentID string, req dto.EndStudyTimeRequest) (*models.StudyTimeLog, error) {
	f.lastOwner = studentID
	return f.timer, f.err
}

func (f *fakeStudyLogSrv) AddSelfEvaluation(_ context.Context, studentID string, req dto.AddSelfEvaluationRequest) (*models.SelfEvaluation, error) {
	f.lastOwner = studentID
	return f.eval, f.err
}

func studyLogTestContext(t *testing.T, method, path, body string, authed bool) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if authed {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "student-1", Role: models.RoleStudent})
	}
	return c, rec
}

func TestStudyLogHandlerAddStudyLog(t *testing.T) {
	service := &fakeStudyLogSrv{log: &models.StudyLog{ID: "log-1", StudentID: "student-1"}}
	handler := NewStudyLogHandler(service)

	c, rec := studyLogTestContext(t, http.MethodPost, "/study-logs", `{"subject_id":"sub-1","content":"notes"}`, true)
	handler.AddStudyLog(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "student-1", service.lastOwner)
}

func TestStudyLogHandlerAddStudyLogUnauthorized(t *testing.T) {
	handler := NewStudyLogHandler(&fakeStudyLogSrv{})

	c, rec := studyLogTestContext(t, http.MethodPost, "/study-logs", `{"subject_id":"sub-1","content":"notes"}`, false)
	handler.AddStudyLog(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStudyLogHandlerAddStudyLogInvalidJSON(t *testing.T) {
	handler := NewStudyLogHandler(&fakeStudyLogSrv{})

	c, rec := studyLogTestContext(t, http.MethodPost, "/study-logs", `{bad`, true)
	handler.AddStudyLog(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudyLogHandlerTimerRoundTrip(t *testing.T) {
	service := &fakeStudyLogSrv{timer: &models.StudyTimeLog{ID: "timer-1", StudentID: "student-1"}}
	handler := NewStudyLogHandler(service)

	c, rec := studyLogTestContext(t, http.MethodPost, "/study-time/start", `{"subject_id":"sub-1"}`, true)
	handler.StartStudyTime(c)
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = studyLogTestContext(t, http.MethodPost, "/study-time/end", `{"log_id":"timer-1","duration_minutes":45}`, true)
	handler.EndStudyTime(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStudyLogHandlerAddSelfEvaluation(t *testing.T) {
	service := &fakeStudyLogSrv{eval: &models.SelfEvaluation{ID: "eval-1", StudentID: "student-1"}}
	handler := NewStudyLogHandler(service)

	c, rec := studyLogTestContext(t, http.MethodPost, "/self-evaluations", `{"satisfaction":4,"achievement":3,"focus":5}`, true)
	handler.AddSelfEvaluation(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "student-1", service.lastOwner)
}
