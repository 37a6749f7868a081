package models

import (
	"fmt"
	"strings"
	"time"
)

// CourseKeyPrefix is the canonical serialized course key namespace.
const CourseKeyPrefix = "course-v1:"

// CourseKey identifies a course run within an organization.
type CourseKey struct {
	Org    string
	Course string
	Run    string
}

// String renders the canonical course key form.
func (k CourseKey) String() string {
	return fmt.Sprintf("%s%s+%s+%s", CourseKeyPrefix, k.Org, k.Course, k.Run)
}

// ParseCourseKey validates a serialized course identifier. Both the canonical
// "course-v1:Org+Course+Run" form and the legacy "Org/Course/Run" form are
// accepted, matching what the host platform stores.
func ParseCourseKey(raw string) (CourseKey, error) {
	if raw == "" {
		return CourseKey{}, fmt.Errorf("empty course key")
	}

	var parts []string
	if rest, ok := strings.CutPrefix(raw, CourseKeyPrefix); ok {
		parts = strings.Split(rest, "+")
	} else {
		parts = strings.Split(raw, "/")
	}

	if len(parts) != 3 {
		return CourseKey{}, fmt.Errorf("invalid course key %q", raw)
	}
	for _, part := range parts {
		if part == "" || strings.ContainsAny(part, " \t") {
			return CourseKey{}, fmt.Errorf("invalid course key %q", raw)
		}
	}

	return CourseKey{Org: parts[0], Course: parts[1], Run: parts[2]}, nil
}

// Course mirrors the catalog metadata the host platform publishes per run.
// End is nullable; runs without an explicit end derive an effective one from
// the start plus the time limit.
type Course struct {
	ID            string     `db:"id" json:"id"`
	Org           string     `db:"org" json:"org"`
	Number        string     `db:"number" json:"course"`
	Run           string     `db:"run" json:"run"`
	DisplayName   string     `db:"display_name" json:"name"`
	ImageURL      string     `db:"image_url" json:"image_url"`
	Start         time.Time  `db:"start" json:"start"`
	End           *time.Time `db:"end" json:"end"`
	TimeLimitMins int        `db:"time_limit_mins" json:"-"`
}

// EffectiveEnd resolves the course end date: the explicit end when present,
// otherwise start plus the time limit (minutes, zero when unset).
func (c Course) EffectiveEnd() time.Time {
	if c.End != nil {
		return *c.End
	}
	return c.Start.Add(time.Duration(c.TimeLimitMins) * time.Minute)
}

// CourseMode is an enrollment tier offered for a course run.
type CourseMode struct {
	CourseID string  `db:"course_id" json:"course_id"`
	Mode     string  `db:"mode" json:"slug"`
	Currency string  `db:"currency" json:"currency"`
	MinPrice float64 `db:"min_price" json:"min_price"`
}

// Library is a content library exposed by the catalog listing.
type Library struct {
	ID          string `db:"id" json:"library_key"`
	Org         string `db:"org" json:"org"`
	DisplayName string `db:"display_name" json:"display_name"`
}

// CourseFilter narrows catalog listings.
type CourseFilter struct {
	CourseIDs []string
	Page      int
	PageSize  int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
