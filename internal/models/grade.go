package models

import "time"

// CourseGrade is a user's persisted overall grade for a course run.
type CourseGrade struct {
	UserID      string    `db:"user_id" json:"user_id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	Percent     float64   `db:"percent" json:"percent"`
	LetterGrade string    `db:"letter_grade" json:"grade"`
	Passed      bool      `db:"passed" json:"passed"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SectionScore is one graded section contributing to a course grade.
type SectionScore struct {
	ID       string  `db:"id" json:"-"`
	UserID   string  `db:"user_id" json:"-"`
	CourseID string  `db:"course_id" json:"-"`
	Category string  `db:"category" json:"category"`
	Label    string  `db:"label" json:"label"`
	Detail   string  `db:"detail" json:"detail"`
	Percent  float64 `db:"percent" json:"percent"`
	Earned   float64 `db:"earned" json:"earned"`
	Possible float64 `db:"possible" json:"possible"`
}

// GradeBreakdownEntry rolls section scores up by category.
type GradeBreakdownEntry struct {
	Category string  `json:"category"`
	Percent  float64 `json:"percent"`
	Detail   string  `json:"detail"`
}

// GradeSummary matches the grade payload shape the grading engine exposes.
type GradeSummary struct {
	Percent          float64               `json:"percent"`
	Grade            string                `json:"grade"`
	SectionBreakdown []SectionScore        `json:"section_breakdown"`
	GradeBreakdown   []GradeBreakdownEntry `json:"grade_breakdown"`
}

// UserGradeResult is one enrolled user's grade record for a course.
type UserGradeResult struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	RealName     string       `json:"realname"`
	GradeSummary GradeSummary `json:"grade_summary"`
}

// GradeExportRow is one flattened line of the course grade report.
type GradeExportRow struct {
	Username    string  `db:"username"`
	Email       string  `db:"email"`
	FullName    string  `db:"full_name"`
	Mode        string  `db:"mode"`
	Percent     float64 `db:"percent"`
	LetterGrade string  `db:"letter_grade"`
	Passed      bool    `db:"passed"`
}
