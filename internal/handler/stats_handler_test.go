package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/edulog-api/internal/analytics"
	"github.com/noah-isme/edulog-api/internal/dto"
)

type fakeStatsSrv struct {
	studentResp *dto.StudentStatsResponse
	studentErr  error
	studentHit  bool
	overallResp *dto.OverallStatsResponse
	overallErr  error
	lastStudent struct {
		studentID string
		period    analytics.Period
		page      int
		pageSize  int
	}
}

func (f *fakeStatsSrv) StudentStats(_ context.Context, studentID string, period analytics.Period, page, pageSize int) (*dto.StudentStatsResponse, bool, error) {
	f.lastStudent.studentID = studentID
	f.lastStudent.period = period
	f.lastStudent.page = page
	f.lastStudent.pageSize = pageSize
	return f.studentResp, f.studentHit, f.studentErr
}

func (f *fakeStatsSrv) AdminStudentStats(ctx context.Context, studentID string) (*dto.StudentStatsResponse, bool, error) {
	return f.StudentStats(ctx, studentID, analytics.PeriodMonth, 1, 20)
}

func (f *fakeStatsSrv) OverallStats(context.Context) (*dto.OverallStatsResponse, bool, error) {
	return f.overallResp, false, f.overallErr
}

func TestStatsHandlerStudentStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeStatsSrv{
		studentResp: &dto.StudentStatsResponse{StudentID: "student-1", Period: "month"},
		studentHit:  true,
	}
	handler := NewStatsHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/student-1/stats?period=month&page=2&limit=10", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}}

	handler.StudentStats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-1", service.lastStudent.studentID)
	assert.Equal(t, analytics.PeriodMonth, service.lastStudent.period)
	assert.Equal(t, 2, service.lastStudent.page)
	assert.Equal(t, 10, service.lastStudent.pageSize)

	var envelope statsEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, "student-1", envelope.Data["student_id"])
}

func TestStatsHandlerStudentStatsUnknownPeriodFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeStatsSrv{studentResp: &dto.StudentStatsResponse{StudentID: "student-1"}}
	handler := NewStatsHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/student-1/stats?period=decade", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}}

	handler.StudentStats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analytics.PeriodWeek, service.lastStudent.period)
}

func TestStatsHandlerOverallStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeStatsSrv{
		overallResp: &dto.OverallStatsResponse{Period: "month", TotalStudents: 5},
	}
	handler := NewStatsHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/stats/overall", nil)

	handler.OverallStats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope statsEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, float64(5), envelope.Data["total_students"])
}

type statsEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
