package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openlearn/lms-extension-api/internal/models"
)

type mockEnrollmentReader struct {
	details []models.EnrollmentDetail
	err     error
}

func (m *mockEnrollmentReader) ListActive(ctx context.Context, username, courseID string) ([]models.EnrollmentDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.details, nil
}

type mockCourseReader struct {
	courses map[string]*models.Course
}

func (m *mockCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if course, ok := m.courses[id]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockExamReader struct {
	exams map[string][]models.Exam
}

func (m *mockExamReader) ListByCourse(ctx context.Context, courseID string) ([]models.Exam, error) {
	return m.exams[courseID], nil
}

func enrollmentDetail(username, courseID string, created time.Time) models.EnrollmentDetail {
	return models.EnrollmentDetail{
		Enrollment: models.Enrollment{
			ID:        username + "-" + courseID,
			CourseID:  courseID,
			Mode:      models.ModeHonor,
			IsActive:  true,
			CreatedAt: created,
		},
		Username: username,
	}
}

func TestEnrollmentServiceListActiveKeepsCreationOrder(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	reader := &mockEnrollmentReader{details: []models.EnrollmentDetail{
		enrollmentDetail("alice", "course-v1:Org+C1+2024", base),
		enrollmentDetail("alice", "course-v1:Org+C2+2024", base.Add(time.Hour)),
		enrollmentDetail("alice", "course-v1:Org+C3+2024", base.Add(2*time.Hour)),
	}}
	svc := NewEnrollmentService(reader, &mockCourseReader{}, &mockExamReader{}, zap.NewNop())

	summaries, err := svc.ListActive(context.Background(), "alice", "")
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	for i := 1; i < len(summaries); i++ {
		assert.True(t, summaries[i-1].Created.Before(summaries[i].Created))
	}
	assert.Equal(t, "course-v1:Org+C1+2024", summaries[0].CourseDetails.CourseID)
}

func TestEnrollmentServiceListActiveWrapsReadFailure(t *testing.T) {
	reader := &mockEnrollmentReader{err: errors.New("connection reset")}
	svc := NewEnrollmentService(reader, &mockCourseReader{}, &mockExamReader{}, zap.NewNop())

	_, err := svc.ListActive(context.Background(), "alice", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "An error occurred while retrieving enrollments for user 'alice'")
}

func TestBuildExamViewDropsCoursesWithoutProctoredExams(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reader := &mockEnrollmentReader{details: []models.EnrollmentDetail{
		enrollmentDetail("alice", "course-v1:Org+Proctored+2024", start),
		enrollmentDetail("alice", "course-v1:Org+Plain+2024", start),
	}}
	courses := &mockCourseReader{courses: map[string]*models.Course{
		"course-v1:Org+Proctored+2024": {ID: "course-v1:Org+Proctored+2024", DisplayName: "Proctored", Start: start, TimeLimitMins: 90},
		"course-v1:Org+Plain+2024":     {ID: "course-v1:Org+Plain+2024", DisplayName: "Plain", Start: start},
	}}
	exams := &mockExamReader{exams: map[string][]models.Exam{
		"course-v1:Org+Proctored+2024": {
			{ID: 1, ExamName: "Final", IsProctored: true},
			{ID: 2, ExamName: "Quiz", IsProctored: false},
		},
		"course-v1:Org+Plain+2024": {
			{ID: 3, ExamName: "Quiz", IsProctored: false},
		},
	}}
	svc := NewEnrollmentService(reader, courses, exams, zap.NewNop())

	view, err := svc.BuildExamView(context.Background(), "alice", "https://lms.example.com")
	require.NoError(t, err)
	require.Len(t, view, 1)

	entry, ok := view["course-v1:Org+Proctored+2024"]
	require.True(t, ok)
	require.Len(t, entry.Exams, 1)
	assert.Equal(t, "Final", entry.Exams[0].ExamName)
	assert.Equal(t, "https://lms.example.com/api/extended/courses/course-v1:Org+Proctored+2024", entry.URI)
}

func TestBuildExamViewDerivesEndFromTimeLimit(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reader := &mockEnrollmentReader{details: []models.EnrollmentDetail{
		enrollmentDetail("alice", "course-v1:Org+Timed+2024", start),
	}}
	courses := &mockCourseReader{courses: map[string]*models.Course{
		"course-v1:Org+Timed+2024": {ID: "course-v1:Org+Timed+2024", DisplayName: "Timed", Start: start, TimeLimitMins: 90},
	}}
	exams := &mockExamReader{exams: map[string][]models.Exam{
		"course-v1:Org+Timed+2024": {{ID: 1, ExamName: "Final", IsProctored: true}},
	}}
	svc := NewEnrollmentService(reader, courses, exams, zap.NewNop())

	view, err := svc.BuildExamView(context.Background(), "alice", "")
	require.NoError(t, err)

	entry := view["course-v1:Org+Timed+2024"]
	assert.Equal(t, "2024-01-01T00:00:00Z", entry.Start)
	assert.Equal(t, "2024-01-01T01:30:00Z", entry.End)
}

func TestBuildExamViewDeduplicatesCourses(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reader := &mockEnrollmentReader{details: []models.EnrollmentDetail{
		enrollmentDetail("alice", "course-v1:Org+Dup+2024", start),
		enrollmentDetail("alice", "course-v1:Org+Dup+2024", start.Add(time.Hour)),
	}}
	courses := &mockCourseReader{courses: map[string]*models.Course{
		"course-v1:Org+Dup+2024": {ID: "course-v1:Org+Dup+2024", DisplayName: "Dup", Start: start},
	}}
	exams := &mockExamReader{exams: map[string][]models.Exam{
		"course-v1:Org+Dup+2024": {{ID: 1, ExamName: "Final", IsProctored: true}},
	}}
	svc := NewEnrollmentService(reader, courses, exams, zap.NewNop())

	view, err := svc.BuildExamView(context.Background(), "alice", "")
	require.NoError(t, err)
	assert.Len(t, view, 1)
}

func TestBuildExamViewFailsOnMissingCourseMetadata(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reader := &mockEnrollmentReader{details: []models.EnrollmentDetail{
		enrollmentDetail("alice", "course-v1:Org+Gone+2024", start),
	}}
	svc := NewEnrollmentService(reader, &mockCourseReader{}, &mockExamReader{}, zap.NewNop())

	_, err := svc.BuildExamView(context.Background(), "alice", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Course 'course-v1:Org+Gone+2024' referenced by an enrollment does not exist")
}
