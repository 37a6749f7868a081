package models

import "time"

// Enrollment modes offered by the platform.
const (
	ModeHonor    = "honor"
	ModeVerified = "verified"
	ModeAudit    = "audit"
)

// Enrollment links a user to a course run with a mode and active flag.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Mode      string    `db:"mode" json:"mode"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created"`
}

// EnrollmentDetail enriches Enrollment with the owning user and course
// metadata needed by the listing serialization.
type EnrollmentDetail struct {
	Enrollment
	Username      string     `db:"username" json:"-"`
	CourseName    string     `db:"course_name" json:"-"`
	CourseStart   time.Time  `db:"course_start" json:"-"`
	CourseEnd     *time.Time `db:"course_end" json:"-"`
	TimeLimitMins int        `db:"time_limit_mins" json:"-"`
}

// EnrollmentSummary is the wire shape of one enrollment in list responses.
type EnrollmentSummary struct {
	User          string        `json:"user"`
	Created       time.Time     `json:"created"`
	Mode          string        `json:"mode"`
	IsActive      bool          `json:"is_active"`
	CourseDetails CourseDetails `json:"course_details"`
}

// CourseDetails is the nested course block of an EnrollmentSummary.
type CourseDetails struct {
	CourseID   string     `json:"course_id"`
	CourseName string     `json:"course_name"`
	Start      time.Time  `json:"course_start"`
	End        *time.Time `json:"course_end"`
}

// EnrollmentView aggregates one enrolled course with its proctored exams.
// Instances only exist for courses with at least one proctored exam; the
// start/end fields are pre-rendered ISO-8601 strings with a UTC designator.
type EnrollmentView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URI      string `json:"uri"`
	ImageURL string `json:"image_url"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Exams    []Exam `json:"exams"`
}
