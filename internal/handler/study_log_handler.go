package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulog-api/internal/dto"
	"github.com/noah-isme/edulog-api/internal/models"
	appErrors "github.com/noah-isme/edulog-api/pkg/errors"
	"github.com/noah-isme/edulog-api/pkg/response"
)

type studyLogService interface {
	AddStudyLog(ctx context.Context, studentID string, req dto.AddStudyLogRequest) (*models.StudyLog, error)
	StartStudyTime(ctx context.Context, studentID string, req dto.StartStudyTimeRequest) (*models.StudyTimeLog, error)
	EndStudyTime(ctx context.Context, studentID string, req dto.EndStudyTimeRequest) (*models.StudyTimeLog, error)
	AddSelfEvaluation(ctx context.Context, studentID string, req dto.AddSelfEvaluationRequest) (*models.SelfEvaluation, error)
}

// StudyLogHandler exposes the student write path. All routes derive
// the student from the authenticated token.
type StudyLogHandler struct {
	service studyLogService
}

// NewStudyLogHandler constructs the handler.
func NewStudyLogHandler(service studyLogService) *StudyLogHandler {
	return &StudyLogHandler{service: service}
}

// AddStudyLog godoc
// @Summary Record today's study log for a subject
// @Tags StudyLogs
// @Accept json
// @Produce json
// @Param payload body dto.AddStudyLogRequest true "Study log payload"
// @Success 201 {object} response.Envelope
// @Router /study-logs [post]
func (h *StudyLogHandler) AddStudyLog(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.AddStudyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	log, err := h.service.AddStudyLog(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, log)
}

// StartStudyTime godoc
// @Summary Start a study timer
// @Tags StudyLogs
// @Accept json
// @Produce json
// @Param payload body dto.StartStudyTimeRequest true "Timer payload"
// @Success 201 {object} response.Envelope
// @Router /study-time/start [post]
func (h *StudyLogHandler) StartStudyTime(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.StartStudyTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	timer, err := h.service.StartStudyTime(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, timer)
}

// EndStudyTime godoc
// @Summary Finish a running study timer
// @Tags StudyLogs
// @Accept json
// @Produce json
// @Param payload body dto.EndStudyTimeRequest true "Timer payload"
// @Success 200 {object} response.Envelope
// @Router /study-time/end [post]
func (h *StudyLogHandler) EndStudyTime(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.EndStudyTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	timer, err := h.service.EndStudyTime(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timer, nil)
}

// AddSelfEvaluation godoc
// @Summary Record today's self-evaluation
// @Tags StudyLogs
// @Accept json
// @Produce json
// @Param payload body dto.AddSelfEvaluationRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Router /self-evaluations [post]
func (h *StudyLogHandler) AddSelfEvaluation(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.AddSelfEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	eval, err := h.service.AddSelfEvaluation(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, eval)
}
