package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "full_name", "country", "is_staff", "active", "created_at"})
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password_hash, full_name, country, is_staff, active, created_at FROM users WHERE username = $1 LIMIT 1`)).
		WithArgs("alice").
		WillReturnRows(userRows().AddRow("u1", "alice", "alice@example.com", "hash", "Alice A", "US", false, true, time.Now()))

	user, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByUsernamesBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username IN ($1,$2,$3)`)).
		WithArgs("alice", "bob", "ghost").
		WillReturnRows(userRows().
			AddRow("u1", "alice", "alice@example.com", "hash", "Alice A", "", false, true, time.Now()).
			AddRow("u2", "bob", "bob@example.com", "hash", "Bob B", "", false, true, time.Now()))

	users, err := repo.FindByUsernames(context.Background(), []string{"alice", "bob", "ghost"})
	require.NoError(t, err)
	// The missing username is the caller's problem to detect.
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByUsernamesEmptyInput(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	users, err := repo.FindByUsernames(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, users)
}

func TestUserRepositoryFindEnrolledByUsername(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users u WHERE u\.username = \$1 AND EXISTS`).
		WithArgs("alice", "course-v1:OrgX+A+2024").
		WillReturnRows(userRows().AddRow("u1", "alice", "alice@example.com", "hash", "Alice A", "", false, true, time.Now()))

	user, err := repo.FindEnrolledByUsername(context.Background(), "course-v1:OrgX+A+2024", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	mock.ExpectQuery(`FROM users u WHERE u\.username = \$1 AND EXISTS`).
		WithArgs("bob", "course-v1:OrgX+A+2024").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindEnrolledByUsername(context.Background(), "course-v1:OrgX+A+2024", "bob")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
