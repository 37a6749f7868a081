package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openlearn/lms-extension-api/internal/models"
)

type mockCatalogRepository struct {
	courses    []models.Course
	total      int
	libraries  []models.Library
	lastFilter models.CourseFilter
}

func (m *mockCatalogRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	m.lastFilter = filter
	return m.courses, m.total, nil
}

func (m *mockCatalogRepository) ListLibraries(ctx context.Context) ([]models.Library, error) {
	return m.libraries, nil
}

func TestCourseServiceListAppliesDefaultPageSize(t *testing.T) {
	catalog := &mockCatalogRepository{courses: []models.Course{{ID: "course-v1:OrgX+A+2024"}}, total: 1}
	svc := NewCourseService(catalog, &mockExamReader{}, nil, 10, zap.NewNop())

	_, pagination, err := svc.List(context.Background(), "", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, catalog.lastFilter.PageSize)
	assert.Equal(t, 10, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestCourseServiceListRejectsMalformedCourseID(t *testing.T) {
	catalog := &mockCatalogRepository{}
	svc := NewCourseService(catalog, &mockExamReader{}, nil, 10, zap.NewNop())

	_, _, err := svc.List(context.Background(), "course-v1:OrgX+A+2024,bogus", 1, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid course ID 'bogus'.")
}

func TestCourseServiceListForwardsCourseIDFilter(t *testing.T) {
	catalog := &mockCatalogRepository{}
	svc := NewCourseService(catalog, &mockExamReader{}, nil, 10, zap.NewNop())

	_, _, err := svc.List(context.Background(), "course-v1:OrgX+A+2024, course-v1:OrgX+B+2024", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"course-v1:OrgX+A+2024", "course-v1:OrgX+B+2024"}, catalog.lastFilter.CourseIDs)
}

func TestCourseServiceListWithExamsSplitsByProctoringFlag(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	catalog := &mockCatalogRepository{
		courses: []models.Course{{ID: "course-v1:OrgX+A+2024", DisplayName: "A", Start: start}},
		total:   1,
	}
	exams := &mockExamReader{exams: map[string][]models.Exam{
		"course-v1:OrgX+A+2024": {
			{ID: 1, ExamName: "Final", IsProctored: true},
			{ID: 2, ExamName: "Quiz", IsProctored: false},
		},
	}}
	svc := NewCourseService(catalog, exams, nil, 10, zap.NewNop())

	result, pagination, err := svc.ListWithExams(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Len(t, result[0].ProctoredExams, 1)
	assert.Len(t, result[0].RegularExams, 1)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestCourseServiceLibraries(t *testing.T) {
	catalog := &mockCatalogRepository{libraries: []models.Library{{ID: "library-v1:OrgX+Lib", Org: "OrgX", DisplayName: "Shared Lib"}}}
	svc := NewCourseService(catalog, &mockExamReader{}, nil, 10, zap.NewNop())

	libraries, err := svc.Libraries(context.Background())
	require.NoError(t, err)
	require.Len(t, libraries, 1)
	assert.Equal(t, "Shared Lib", libraries[0].DisplayName)
}
