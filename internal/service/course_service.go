package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/openlearn/lms-extension-api/internal/models"
	appErrors "github.com/openlearn/lms-extension-api/pkg/errors"
)

type catalogRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	ListLibraries(ctx context.Context) ([]models.Library, error)
}

// CourseService serves the non-user-scoped catalog listings. These endpoints
// are the only ones backed by the cache; user-scoped aggregation always reads
// fresh data.
type CourseService struct {
	catalog         catalogRepository
	exams           examReader
	cache           *CacheService
	defaultPageSize int
	logger          *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(catalog catalogRepository, exams examReader, cache *CacheService, defaultPageSize int, logger *zap.Logger) *CourseService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{catalog: catalog, exams: exams, cache: cache, defaultPageSize: defaultPageSize, logger: logger}
}

// List returns catalog courses, optionally narrowed to a comma-separated set
// of course ids, sorted by serialized course id.
func (s *CourseService) List(ctx context.Context, courseIDsParam string, page, pageSize int) ([]models.Course, *models.Pagination, error) {
	filter := models.CourseFilter{Page: page, PageSize: pageSize}
	if filter.PageSize <= 0 {
		filter.PageSize = s.defaultPageSize
	}
	if courseIDsParam != "" {
		for _, id := range strings.Split(courseIDsParam, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, err := models.ParseCourseKey(id); err != nil {
				return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Invalid course ID '%s'.", id))
			}
			filter.CourseIDs = append(filter.CourseIDs, id)
		}
	}

	courses, total, err := s.catalog.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving courses")
	}

	page = filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: filter.PageSize, TotalCount: total}
	return courses, pagination, nil
}

// ListWithExams returns catalog courses joined with their exam descriptors,
// split into proctored and regular sets per course.
func (s *CourseService) ListWithExams(ctx context.Context, page, pageSize int) ([]models.CourseWithExams, *models.Pagination, error) {
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("catalog:proctored:%d:%d", page, pageSize)
	var cached struct {
		Courses    []models.CourseWithExams `json:"courses"`
		Pagination models.Pagination        `json:"pagination"`
	}
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached.Courses, &cached.Pagination, nil
	}

	courses, total, err := s.catalog.List(ctx, models.CourseFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving courses")
	}

	result := make([]models.CourseWithExams, 0, len(courses))
	for _, course := range courses {
		exams, err := s.exams.ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
				"An error occurred while retrieving exams")
		}
		entry := models.CourseWithExams{Course: course, ProctoredExams: []models.Exam{}, RegularExams: []models.Exam{}}
		for _, exam := range exams {
			if exam.IsProctored {
				entry.ProctoredExams = append(entry.ProctoredExams, exam)
			} else {
				entry.RegularExams = append(entry.RegularExams, exam)
			}
		}
		result = append(result, entry)
	}

	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}

	cached.Courses = result
	cached.Pagination = *pagination
	if err := s.cache.Set(ctx, cacheKey, cached, 0); err != nil {
		s.logger.Warn("failed to cache proctored catalog", zap.Error(err))
	}

	return result, pagination, nil
}

// Libraries returns every content library in the catalog.
func (s *CourseService) Libraries(ctx context.Context) ([]models.Library, error) {
	libraries, err := s.catalog.ListLibraries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving libraries")
	}
	return libraries, nil
}
