package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlearn/lms-extension-api/internal/middleware"
	"github.com/openlearn/lms-extension-api/internal/service"
	appErrors "github.com/openlearn/lms-extension-api/pkg/errors"
	"github.com/openlearn/lms-extension-api/pkg/response"
)

// GradeHandler wires the grade lookup and report export endpoints.
type GradeHandler struct {
	service *service.GradeService
}

// NewGradeHandler creates a new handler.
func NewGradeHandler(svc *service.GradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// UserGrade godoc
// @Summary Per-user course grade
// @Description Grade summary for one enrolled user of a course
// @Tags Grades
// @Produce json
// @Param course_id path string true "Course id"
// @Param username path string true "Username"
// @Success 200 {array} models.UserGradeResult
// @Failure 400 {object} response.MessageBody
// @Router /grades/{course_id}/{username} [get]
func (h *GradeHandler) UserGrade(c *gin.Context) {
	courseID := c.Param("course_id")
	username := c.Param("username")

	if !canActFor(c, username) {
		response.NotFound(c)
		return
	}

	results, err := h.service.UserCourseGrade(c.Request.Context(), courseID, username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotEnrolled) {
			// Legacy contract: a 200 with an oauth-style error body, not an
			// error status.
			c.JSON(http.StatusOK, gin.H{
				"error":             "invalid_request",
				"error_description": service.ErrUserNotEnrolled.Message,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, results)
}

// ExportReport godoc
// @Summary Course grade report download
// @Description Render the course-wide grade report as CSV or PDF
// @Tags Grades
// @Produce octet-stream
// @Param course_id path string true "Course id"
// @Param format query string false "Report format (csv or pdf)" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.MessageBody
// @Failure 403 {object} response.MessageBody
// @Router /grade_reports/{course_id} [get]
func (h *GradeHandler) ExportReport(c *gin.Context) {
	if !middleware.IsPrivileged(c) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	courseID := c.Param("course_id")
	format := c.DefaultQuery("format", "csv")

	payload, filename, contentType, err := h.service.ExportReport(c.Request.Context(), courseID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
