package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulog-api/internal/analytics"
	"github.com/noah-isme/edulog-api/internal/dto"
	"github.com/noah-isme/edulog-api/internal/middleware"
	appErrors "github.com/noah-isme/edulog-api/pkg/errors"
	"github.com/noah-isme/edulog-api/pkg/response"
)

type learningStatsService interface {
	StudentStats(ctx context.Context, studentID string, period analytics.Period, page, pageSize int) (*dto.StudentStatsResponse, bool, error)
	AdminStudentStats(ctx context.Context, studentID string) (*dto.StudentStatsResponse, bool, error)
	OverallStats(ctx context.Context) (*dto.OverallStatsResponse, bool, error)
}

// StatsHandler wires the learning stats service to HTTP endpoints.
type StatsHandler struct {
	service learningStatsService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(service learningStatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// StudentStats godoc
// @Summary Learning stats for a student
// @Tags Stats
// @Produce json
// @Param id path string true "Student ID"
// @Param period query string false "week, month, or quarter"
// @Param page query int false "Study log page"
// @Param limit query int false "Study log page size"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/stats [get]
func (h *StatsHandler) StudentStats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	studentID := c.Param("id")
	period := analytics.ParsePeriod(c.DefaultQuery("period", string(analytics.PeriodWeek)))
	page := 1
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	pageSize := 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		pageSize = v
	}

	start := time.Now()
	stats, cacheHit, err := h.service.StudentStats(c.Request.Context(), studentID, period, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, stats, nil, meta)
}

// AdminStudentStats godoc
// @Summary Admin view of one student's learning stats
// @Tags Stats
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id}/stats [get]
func (h *StatsHandler) AdminStudentStats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.AdminStudentStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, stats, nil, meta)
}

// OverallStats godoc
// @Summary Aggregated learning stats across all students
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/stats/overall [get]
func (h *StatsHandler) OverallStats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.OverallStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, stats, nil, meta)
}
