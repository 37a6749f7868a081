package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbargoRepositoryIsRestricted(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmbargoRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM embargo_restrictions er`).
		WithArgs("course-v1:OrgX+A+2024", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	restricted, err := repo.IsRestricted(context.Background(), "course-v1:OrgX+A+2024", "u1")
	require.NoError(t, err)
	assert.True(t, restricted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbargoRepositoryNoMatchMeansUnrestricted(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmbargoRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM embargo_restrictions er`).
		WithArgs("course-v1:OrgX+A+2024", "u2").
		WillReturnError(sql.ErrNoRows)

	restricted, err := repo.IsRestricted(context.Background(), "course-v1:OrgX+A+2024", "u2")
	require.NoError(t, err)
	assert.False(t, restricted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
