package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openlearn/lms-extension-api/internal/models"
)

// ExamRepository reads the exam registry.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// ListByCourse returns every active exam descriptor registered for a course,
// proctored or not. Filtering on the proctoring flag is the caller's concern.
func (r *ExamRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Exam, error) {
	const query = `SELECT id, course_id, exam_name, content_id, time_limit_mins, is_proctored, is_practice, is_active
        FROM exams WHERE course_id = $1 AND is_active = TRUE ORDER BY id ASC`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, courseID); err != nil {
		return nil, fmt.Errorf("list exams for course: %w", err)
	}
	return exams, nil
}
