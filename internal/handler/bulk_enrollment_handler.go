package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlearn/lms-extension-api/internal/middleware"
	"github.com/openlearn/lms-extension-api/internal/service"
	appErrors "github.com/openlearn/lms-extension-api/pkg/errors"
	"github.com/openlearn/lms-extension-api/pkg/response"
)

// BulkEnrollmentHandler wires the paid mass enrollment endpoint.
type BulkEnrollmentHandler struct {
	service *service.BulkEnrollmentService
}

// NewBulkEnrollmentHandler creates a new handler.
func NewBulkEnrollmentHandler(svc *service.BulkEnrollmentService) *BulkEnrollmentHandler {
	return &BulkEnrollmentHandler{service: svc}
}

// Enroll godoc
// @Summary Bulk enrollment mode change
// @Description Apply a course-mode change to a batch of users after validation and policy checks
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body service.BulkEnrollmentRequest true "Bulk enrollment payload"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.MessageBody
// @Failure 403 {object} response.MessageBody
// @Router /paid_mass_enrollment [post]
func (h *BulkEnrollmentHandler) Enroll(c *gin.Context) {
	if !middleware.IsPrivileged(c) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	var req service.BulkEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid request payload."))
		return
	}

	msg, err := h.service.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "%s", msg)
}
