package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openlearn/lms-extension-api/internal/models"
	appErrors "github.com/openlearn/lms-extension-api/pkg/errors"
)

type enrollmentReader interface {
	ListActive(ctx context.Context, username, courseID string) ([]models.EnrollmentDetail, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type examReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Exam, error)
}

// timestampLayout renders ISO-8601 with an explicit UTC designator.
const timestampLayout = "2006-01-02T15:04:05Z"

// EnrollmentService implements the enrollment listing and the per-user
// course+exam aggregation.
type EnrollmentService struct {
	enrollments enrollmentReader
	courses     courseReader
	exams       examReader
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(enrollments enrollmentReader, courses courseReader, exams examReader, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, courses: courses, exams: exams, logger: logger}
}

// ListActive returns the active enrollments for a user in creation order. An
// empty username lists every user's enrollments (staff and API-key callers
// only; the handler enforces that). The optional courseID narrows the result
// to a single run.
func (s *EnrollmentService) ListActive(ctx context.Context, username, courseID string) ([]models.EnrollmentSummary, error) {
	details, err := s.enrollments.ListActive(ctx, username, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			fmt.Sprintf("An error occurred while retrieving enrollments for user '%s'", username))
	}

	summaries := make([]models.EnrollmentSummary, 0, len(details))
	for _, d := range details {
		summaries = append(summaries, models.EnrollmentSummary{
			User:     d.Username,
			Created:  d.CreatedAt,
			Mode:     d.Mode,
			IsActive: d.IsActive,
			CourseDetails: models.CourseDetails{
				CourseID:   d.CourseID,
				CourseName: d.CourseName,
				Start:      d.CourseStart,
				End:        d.CourseEnd,
			},
		})
	}
	return summaries, nil
}

// BuildExamView joins a user's active enrollments with the exam registry into
// per-course entries keyed by course id. Courses appear at most once, carry
// only proctored exams, and are dropped entirely when no proctored exam
// exists. Course metadata is read fresh on every call; a referenced course
// that cannot be resolved fails the whole request rather than being skipped.
func (s *EnrollmentService) BuildExamView(ctx context.Context, username, baseURL string) (map[string]models.EnrollmentView, error) {
	details, err := s.enrollments.ListActive(ctx, username, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			fmt.Sprintf("An error occurred while retrieving enrollments for user '%s'", username))
	}

	result := make(map[string]models.EnrollmentView)
	for _, d := range details {
		if _, seen := result[d.CourseID]; seen {
			continue
		}

		course, err := s.courses.FindByID(ctx, d.CourseID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
					fmt.Sprintf("Course '%s' referenced by an enrollment does not exist", d.CourseID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
				"An error occurred while retrieving course metadata")
		}

		exams, err := s.exams.ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
				"An error occurred while retrieving exams")
		}

		proctored := make([]models.Exam, 0, len(exams))
		for _, exam := range exams {
			if exam.IsProctored {
				proctored = append(proctored, exam)
			}
		}
		if len(proctored) == 0 {
			continue
		}

		result[course.ID] = models.EnrollmentView{
			ID:       course.ID,
			Name:     course.DisplayName,
			URI:      fmt.Sprintf("%s/api/extended/courses/%s", baseURL, course.ID),
			ImageURL: course.ImageURL,
			Start:    formatTimestamp(course.Start),
			End:      formatTimestamp(course.EffectiveEnd()),
			Exams:    proctored,
		}
	}
	return result, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
