package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadankyi1/amforex/internal/models"
)

func newPasscodeRepoWithMock(t *testing.T) (*PasscodeRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &PasscodeRepository{db: db}, mock, db
}

func TestPasscodeCreate(t *testing.T) {
	repo, mock, db := newPasscodeRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO passcodes`).
		WithArgs("admin", int64(7), "48213").
		WillReturnRows(sqlmock.NewRows([]string{"passcode_id", "created_at"}).AddRow(int64(101), now))

	p := &models.Passcode{UserType: "admin", UserID: 7, Code: "48213"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(101), p.PasscodeID)
}

func TestLatestUnusedPicksNewestRow(t *testing.T) {
	repo, mock, db := newPasscodeRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`ORDER BY passcode_id DESC LIMIT 1`).
		WithArgs("admin", int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"passcode_id", "user_type", "user_id", "passcode", "used", "created_at"}).
			AddRow(int64(202), "admin", int64(7), "90415", false, now))

	p, err := repo.LatestUnused(context.Background(), "admin", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(202), p.PasscodeID)
	assert.Equal(t, "90415", p.Code)
	assert.False(t, p.Used)
}

func TestLatestUnusedNotFound(t *testing.T) {
	repo, mock, db := newPasscodeRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`ORDER BY passcode_id DESC LIMIT 1`).
		WithArgs("admin", int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.LatestUnused(context.Background(), "admin", 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestUnusedMatchingFiltersByCode(t *testing.T) {
	repo, mock, db := newPasscodeRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`passcode = \$3 AND used = FALSE`).
		WithArgs("admin", int64(7), "48213").
		WillReturnRows(sqlmock.NewRows(
			[]string{"passcode_id", "user_type", "user_id", "passcode", "used", "created_at"}).
			AddRow(int64(303), "admin", int64(7), "48213", false, now))

	p, err := repo.LatestUnusedMatching(context.Background(), "admin", 7, "48213")
	require.NoError(t, err)
	assert.Equal(t, int64(303), p.PasscodeID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkUsed(t *testing.T) {
	repo, mock, db := newPasscodeRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE passcodes SET used = TRUE`).
		WithArgs(int64(303)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkUsed(context.Background(), 303))
}

func TestMarkUsedMissingRow(t *testing.T) {
	repo, mock, db := newPasscodeRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE passcodes SET used = TRUE`).
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkUsed(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPasscodeCreateDBError(t *testing.T) {
	repo, mock, db := newPasscodeRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO passcodes`).
		WithArgs("admin", int64(7), "48213").
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Passcode{UserType: "admin", UserID: 7, Code: "48213"})
	assert.ErrorContains(t, err, "db down")
}
