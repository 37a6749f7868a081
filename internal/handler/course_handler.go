package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openlearn/lms-extension-api/internal/service"
	"github.com/openlearn/lms-extension-api/pkg/response"
)

// CourseHandler wires the catalog endpoints.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Description List courses sorted by course id, optionally filtered to specific ids
// @Tags Catalog
// @Produce json
// @Param course_id query string false "Comma-separated course ids to filter on"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.MessageBody
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)
	courses, pagination, err := h.service.List(c.Request.Context(), c.Query("course_id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"results": courses, "pagination": pagination})
}

// Proctored godoc
// @Summary List courses with proctored exams
// @Description Catalog join of courses and their exams, split by proctoring flag
// @Tags Catalog
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.MessageBody
// @Router /courses/proctored [get]
func (h *CourseHandler) Proctored(c *gin.Context) {
	page, pageSize := paginationParams(c)
	courses, pagination, err := h.service.ListWithExams(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"results": courses, "pagination": pagination})
}

// Libraries godoc
// @Summary List content libraries
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Library
// @Failure 400 {object} response.MessageBody
// @Router /libraries [get]
func (h *CourseHandler) Libraries(c *gin.Context) {
	libraries, err := h.service.Libraries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, libraries)
}

func paginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	if page < 1 {
		page = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	return page, pageSize
}
