package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlearn/lms-extension-api/internal/middleware"
	"github.com/openlearn/lms-extension-api/internal/service"
	appErrors "github.com/openlearn/lms-extension-api/pkg/errors"
	"github.com/openlearn/lms-extension-api/pkg/response"
)

// EnrollmentHandler wires the enrollment listing and exam view endpoints.
type EnrollmentHandler struct {
	service *service.EnrollmentService
	baseURL string
}

// NewEnrollmentHandler creates a new handler. baseURL is the externally
// visible origin used to build course URIs in the exam view.
func NewEnrollmentHandler(svc *service.EnrollmentService, baseURL string) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc, baseURL: baseURL}
}

// List godoc
// @Summary List active enrollments
// @Description List a user's active enrollments in creation order
// @Tags Enrollment
// @Produce json
// @Param user query string false "Username to list enrollments for"
// @Param course_run query string false "Restrict the listing to one course run"
// @Success 200 {array} models.EnrollmentSummary
// @Failure 400 {object} response.MessageBody
// @Router /enrollment [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	privileged := middleware.IsPrivileged(c)

	if claims == nil && !privileged {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	target := c.Query("user")
	switch {
	case target == "" && !privileged:
		// Plain callers always see their own enrollments.
		target = claims.Username
	case target != "" && !canActFor(c, target):
		// The 404 hides whether the other user has enrollments at all.
		response.NotFound(c)
		return
	}

	summaries, err := h.service.ListActive(c.Request.Context(), target, c.Query("course_run"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summaries)
}

// ProctoredExams godoc
// @Summary Per-user proctored exam view
// @Description Active enrollments joined with their proctored exams, keyed by course id
// @Tags Enrollment
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]models.EnrollmentView
// @Failure 400 {object} response.MessageBody
// @Router /user_proctored_exams/{username} [get]
func (h *EnrollmentHandler) ProctoredExams(c *gin.Context) {
	username := c.Param("username")
	if !canActFor(c, username) {
		response.NotFound(c)
		return
	}

	view, err := h.service.BuildExamView(c.Request.Context(), username, h.baseURL)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view)
}
