package models

// Exam is an exam descriptor registered for a course run. Fields beyond the
// proctoring flag are passed through to API consumers unmodified.
type Exam struct {
	ID            int64  `db:"id" json:"id"`
	CourseID      string `db:"course_id" json:"course_id"`
	ExamName      string `db:"exam_name" json:"exam_name"`
	ContentID     string `db:"content_id" json:"content_id"`
	TimeLimitMins int    `db:"time_limit_mins" json:"time_limit_mins"`
	IsProctored   bool   `db:"is_proctored" json:"is_proctored"`
	IsPractice    bool   `db:"is_practice" json:"is_practice_exam"`
	IsActive      bool   `db:"is_active" json:"is_active"`
}

// CourseWithExams is the catalog join entry returned by the proctored course
// listing: course metadata plus its exams split by proctoring flag.
type CourseWithExams struct {
	Course
	ProctoredExams []Exam `json:"proctored_exams"`
	RegularExams   []Exam `json:"regular_exams"`
}
