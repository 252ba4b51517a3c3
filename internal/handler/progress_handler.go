package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulog-api/internal/models"
	"github.com/noah-isme/edulog-api/internal/service"
	appErrors "github.com/noah-isme/edulog-api/pkg/errors"
	"github.com/noah-isme/edulog-api/pkg/response"
)

// ProgressHandler handles assignment submission endpoints.
type ProgressHandler struct {
	service *service.ProgressService
}

// NewProgressHandler constructs a progress handler.
func NewProgressHandler(svc *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: svc}
}

// Submit godoc
// @Summary Submit or resubmit an assignment
// @Tags Progress
// @Accept json
// @Produce json
// @Param payload body service.SubmitProgressRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Router /progress [post]
func (h *ProgressHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SubmitProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	progress, err := h.service.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, progress)
}

// Grade godoc
// @Summary Grade a submission
// @Tags Progress
// @Accept json
// @Produce json
// @Param id path string true "Progress ID"
// @Param payload body service.GradeProgressRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /progress/{id}/grade [put]
func (h *ProgressHandler) Grade(c *gin.Context) {
	var req service.GradeProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	progress, err := h.service.Grade(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// ListMine godoc
// @Summary List the authenticated student's submissions
// @Tags Progress
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /progress/me [get]
func (h *ProgressHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	rows, err := h.service.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// ListByStudent godoc
// @Summary List a student's submissions
// @Tags Progress
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progress [get]
func (h *ProgressHandler) ListByStudent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	studentID := c.Param("id")
	if claims.Role != models.RoleAdmin && claims.UserID != studentID {
		response.Error(c, appErrors.ErrForbidden)
		return
	}
	rows, err := h.service.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// ListByAssignment godoc
// @Summary List all submissions for an assignment
// @Tags Progress
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/progress [get]
func (h *ProgressHandler) ListByAssignment(c *gin.Context) {
	rows, err := h.service.ListByAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
