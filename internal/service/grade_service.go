package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/openlearn/lms-extension-api/internal/models"
	appErrors "github.com/openlearn/lms-extension-api/pkg/errors"
	"github.com/openlearn/lms-extension-api/pkg/export"
)

// ErrUserNotEnrolled signals that the requested user holds no active
// enrollment in the course. The handler maps it to the legacy
// invalid_request body rather than an error status.
var ErrUserNotEnrolled = appErrors.New("NOT_ENROLLED", 200, "User is not enrolled for the course")

type gradeReader interface {
	FindCourseGrade(ctx context.Context, userID, courseID string) (*models.CourseGrade, error)
	ListSectionScores(ctx context.Context, userID, courseID string) ([]models.SectionScore, error)
	ExportRows(ctx context.Context, courseID string) ([]models.GradeExportRow, error)
}

type enrolledUserFinder interface {
	FindEnrolledByUsername(ctx context.Context, courseID, username string) (*models.User, error)
}

type tabularExporter interface {
	Render(data export.Dataset) ([]byte, error)
}

type documentExporter interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// GradeService exposes persisted grading results per user and as course-wide
// report downloads.
type GradeService struct {
	grades  gradeReader
	users   enrolledUserFinder
	courses courseReader
	csv     tabularExporter
	pdf     documentExporter
	logger  *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(grades gradeReader, users enrolledUserFinder, courses courseReader, csv tabularExporter, pdf documentExporter, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, users: users, courses: courses, csv: csv, pdf: pdf, logger: logger}
}

// UserCourseGrade returns the grade record of one enrolled user of a course.
// The result is a single-element list, mirroring the per-student roster shape
// of the original gradebook payload.
func (s *GradeService) UserCourseGrade(ctx context.Context, courseID, username string) ([]models.UserGradeResult, error) {
	if _, err := models.ParseCourseKey(courseID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Invalid course ID '%s'.", courseID))
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Course '%s' not found.", courseID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving course information")
	}

	user, err := s.users.FindEnrolledByUsername(ctx, courseID, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotEnrolled
		}
		return nil, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while resolving the user")
	}

	summary, err := s.buildSummary(ctx, user.ID, courseID)
	if err != nil {
		return nil, err
	}

	return []models.UserGradeResult{{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RealName:     user.FullName,
		GradeSummary: summary,
	}}, nil
}

func (s *GradeService) buildSummary(ctx context.Context, userID, courseID string) (models.GradeSummary, error) {
	summary := models.GradeSummary{SectionBreakdown: []models.SectionScore{}, GradeBreakdown: []models.GradeBreakdownEntry{}}

	grade, err := s.grades.FindCourseGrade(ctx, userID, courseID)
	if err != nil && err != sql.ErrNoRows {
		return summary, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving the course grade")
	}
	if grade != nil {
		summary.Percent = grade.Percent
		summary.Grade = grade.LetterGrade
	}

	sections, err := s.grades.ListSectionScores(ctx, userID, courseID)
	if err != nil {
		return summary, appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving section scores")
	}
	summary.SectionBreakdown = sections

	// Roll sections up by category preserving first-seen category order.
	var order []string
	byCategory := make(map[string]float64)
	for _, section := range sections {
		if _, seen := byCategory[section.Category]; !seen {
			order = append(order, section.Category)
		}
		byCategory[section.Category] += section.Percent
	}
	for _, category := range order {
		summary.GradeBreakdown = append(summary.GradeBreakdown, models.GradeBreakdownEntry{
			Category: category,
			Percent:  byCategory[category],
			Detail:   fmt.Sprintf("%s - %.0f%% of the final grade", category, byCategory[category]*100),
		})
	}

	return summary, nil
}

// ExportReport renders the course-wide grade report in the requested format.
// It returns the document bytes, a download filename and the content type.
func (s *GradeService) ExportReport(ctx context.Context, courseID, format string) ([]byte, string, string, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Course '%s' not found.", courseID))
		}
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving course information")
	}

	rows, err := s.grades.ExportRows(ctx, courseID)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving the grade report")
	}

	dataset := export.Dataset{
		Headers: []string{"Username", "Email", "Full Name", "Mode", "Percent", "Grade", "Passed"},
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Username":  row.Username,
			"Email":     row.Email,
			"Full Name": row.FullName,
			"Mode":      row.Mode,
			"Percent":   fmt.Sprintf("%.2f", row.Percent),
			"Grade":     row.LetterGrade,
			"Passed":    fmt.Sprintf("%t", row.Passed),
		})
	}

	switch format {
	case "pdf":
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Grade report %s", course.DisplayName))
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
				"An error occurred while rendering the grade report")
		}
		return payload, fmt.Sprintf("grades-%s.pdf", course.Run), "application/pdf", nil
	case "", "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
				"An error occurred while rendering the grade report")
		}
		return payload, fmt.Sprintf("grades-%s.csv", course.Run), "text/csv", nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("'%s' is not a supported report format.", format))
	}
}
