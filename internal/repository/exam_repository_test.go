package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "exam_name", "content_id", "time_limit_mins", "is_proctored", "is_practice", "is_active"}).
		AddRow(1, "course-v1:OrgX+A+2024", "Final", "block-v1:final", 120, true, false, true).
		AddRow(2, "course-v1:OrgX+A+2024", "Quiz", "block-v1:quiz", 30, false, false, true)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM exams WHERE course_id = $1 AND is_active = TRUE ORDER BY id ASC`)).
		WithArgs("course-v1:OrgX+A+2024").
		WillReturnRows(rows)

	exams, err := repo.ListByCourse(context.Background(), "course-v1:OrgX+A+2024")
	require.NoError(t, err)
	require.Len(t, exams, 2)
	assert.True(t, exams[0].IsProctored)
	assert.False(t, exams[1].IsProctored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryListByCourseEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM exams WHERE course_id = $1 AND is_active = TRUE`)).
		WithArgs("course-v1:OrgX+Empty+2024").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "exam_name", "content_id", "time_limit_mins", "is_proctored", "is_practice", "is_active"}))

	exams, err := repo.ListByCourse(context.Background(), "course-v1:OrgX+Empty+2024")
	require.NoError(t, err)
	assert.Empty(t, exams)
	assert.NoError(t, mock.ExpectationsWereMet())
}
