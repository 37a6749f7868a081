package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/openlearn/lms-extension-api/internal/models"
)

// EnrollmentRepository handles persistence of course enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentDetailColumns = `e.id, e.user_id, e.course_id, e.mode, e.is_active, e.created_at,
        u.username, c.display_name AS course_name, c.start AS course_start, c."end" AS course_end, c.time_limit_mins`

// ListActive returns active enrollments ordered by creation time. An empty
// username lists every user's enrollments; courseID optionally narrows to a
// single run. The ascending creation order is a contract relied upon by
// callers, not a presentation choice.
func (r *EnrollmentRepository) ListActive(ctx context.Context, username, courseID string) ([]models.EnrollmentDetail, error) {
	base := `SELECT ` + enrollmentDetailColumns + `
        FROM enrollments e
        JOIN users u ON u.id = e.user_id
        JOIN courses c ON c.id = e.course_id`

	conditions := []string{"e.is_active = TRUE"}
	var args []interface{}

	if username != "" {
		conditions = append(conditions, fmt.Sprintf("u.username = $%d", len(args)+1))
		args = append(args, username)
	}
	if courseID != "" {
		conditions = append(conditions, fmt.Sprintf("e.course_id = $%d", len(args)+1))
		args = append(args, courseID)
	}

	query := base + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY e.created_at ASC"

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByUserAndCourse returns a user's enrollment for a course regardless of
// its active flag.
func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	const query = `SELECT id, user_id, course_id, mode, is_active, created_at FROM enrollments WHERE user_id = $1 AND course_id = $2 LIMIT 1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// UpdateModeAndActive changes the mode and active flag of an enrollment.
func (r *EnrollmentRepository) UpdateModeAndActive(ctx context.Context, id, mode string, isActive bool) error {
	const query = `UPDATE enrollments SET mode = $2, is_active = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, mode, isActive); err != nil {
		return fmt.Errorf("update enrollment mode: %w", err)
	}
	return nil
}
