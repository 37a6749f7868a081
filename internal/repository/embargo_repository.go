package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EmbargoRepository evaluates regional access restrictions for enrollments.
type EmbargoRepository struct {
	db *sqlx.DB
}

// NewEmbargoRepository constructs the repository.
func NewEmbargoRepository(db *sqlx.DB) *EmbargoRepository {
	return &EmbargoRepository{db: db}
}

// IsRestricted reports whether the user's country is embargoed for the
// course. Users without a recorded country are never restricted.
func (r *EmbargoRepository) IsRestricted(ctx context.Context, courseID, userID string) (bool, error) {
	const query = `SELECT 1 FROM embargo_restrictions er
        JOIN users u ON u.country = er.country
        WHERE er.course_id = $1 AND u.id = $2 AND u.country <> '' LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, courseID, userID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check embargo restriction: %w", err)
	}
	return true, nil
}
