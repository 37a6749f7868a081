package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/openlearn/lms-extension-api/internal/models"
)

// CourseRepository provides read access to the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, org, number, run, display_name, image_url, start, "end", time_limit_mins`

// List returns catalog courses sorted by their serialized id so the listing
// order is predictable across requests.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var conditions []string
	var args []interface{}

	if len(filter.CourseIDs) > 0 {
		placeholders := make([]string, len(filter.CourseIDs))
		for i, id := range filter.CourseIDs {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, id)
		}
		conditions = append(conditions, fmt.Sprintf("id IN (%s)", strings.Join(placeholders, ",")))
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM courses%s ORDER BY id ASC LIMIT %d OFFSET %d`, courseColumns, clause, size, offset)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM courses" + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindByID returns a course by its serialized key.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1 LIMIT 1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// ListModes returns the enrollment modes offered for a course.
func (r *CourseRepository) ListModes(ctx context.Context, courseID string) ([]models.CourseMode, error) {
	const query = `SELECT course_id, mode, currency, min_price FROM course_modes WHERE course_id = $1 ORDER BY mode ASC`
	var modes []models.CourseMode
	if err := r.db.SelectContext(ctx, &modes, query, courseID); err != nil {
		return nil, fmt.Errorf("list course modes: %w", err)
	}
	return modes, nil
}

// ListLibraries returns every content library in the catalog.
func (r *CourseRepository) ListLibraries(ctx context.Context) ([]models.Library, error) {
	const query = `SELECT id, org, display_name FROM libraries ORDER BY id ASC`
	var libraries []models.Library
	if err := r.db.SelectContext(ctx, &libraries, query); err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	return libraries, nil
}
