package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/openlearn/lms-extension-api/internal/models"
)

// PreferenceRepository persists per-user, per-organization preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs the repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// SetEmailOptIn upserts the enrollment email opt-in preference for a user
// against the course's organization.
func (r *PreferenceRepository) SetEmailOptIn(ctx context.Context, userID, org string, optIn bool) error {
	const query = `INSERT INTO user_preferences (user_id, org, pref_key, pref_value, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, org, pref_key) DO UPDATE SET pref_value = EXCLUDED.pref_value, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, userID, org, models.PrefEmailOptIn, strconv.FormatBool(optIn), time.Now().UTC()); err != nil {
		return fmt.Errorf("set email opt-in: %w", err)
	}
	return nil
}
