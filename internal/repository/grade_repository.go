package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openlearn/lms-extension-api/internal/models"
)

// GradeRepository reads persisted grading results.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// FindCourseGrade returns the overall grade for a user and course.
func (r *GradeRepository) FindCourseGrade(ctx context.Context, userID, courseID string) (*models.CourseGrade, error) {
	const query = `SELECT user_id, course_id, percent, letter_grade, passed, updated_at
        FROM course_grades WHERE user_id = $1 AND course_id = $2 LIMIT 1`
	var grade models.CourseGrade
	if err := r.db.GetContext(ctx, &grade, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course grade: %w", err)
	}
	return &grade, nil
}

// ListSectionScores returns the graded section rows for a user and course in
// the order they were recorded.
func (r *GradeRepository) ListSectionScores(ctx context.Context, userID, courseID string) ([]models.SectionScore, error) {
	const query = `SELECT id, user_id, course_id, category, label, detail, percent, earned, possible
        FROM section_scores WHERE user_id = $1 AND course_id = $2 ORDER BY id ASC`
	var scores []models.SectionScore
	if err := r.db.SelectContext(ctx, &scores, query, userID, courseID); err != nil {
		return nil, fmt.Errorf("list section scores: %w", err)
	}
	return scores, nil
}

// ExportRows returns one flattened grade line per actively enrolled user of
// the course, ordered by username for stable report output.
func (r *GradeRepository) ExportRows(ctx context.Context, courseID string) ([]models.GradeExportRow, error) {
	const query = `SELECT u.username, u.email, u.full_name, e.mode,
        COALESCE(g.percent, 0) AS percent, COALESCE(g.letter_grade, '') AS letter_grade, COALESCE(g.passed, FALSE) AS passed
        FROM enrollments e
        JOIN users u ON u.id = e.user_id
        LEFT JOIN course_grades g ON g.user_id = e.user_id AND g.course_id = e.course_id
        WHERE e.course_id = $1 AND e.is_active = TRUE
        ORDER BY u.username ASC`
	var rows []models.GradeExportRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("export grade rows: %w", err)
	}
	return rows, nil
}
