package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadankyi1/amforex/internal/models"
)

func newCurrencyRepoWithMock(t *testing.T) (*CurrencyRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &CurrencyRepository{db: db}, mock, db
}

func TestCurrencyCreate(t *testing.T) {
	repo, mock, db := newCurrencyRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO currencies`).
		WithArgs("United States Dollar", "USD", "$", false, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"currency_id", "created_at"}).AddRow(int64(5), now))

	c := &models.Currency{FullName: "United States Dollar", Abbreviation: "USD", Symbol: "$", CreatorAdminID: 1}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, int64(5), c.CurrencyID)
}

func TestExistsByAbbreviation(t *testing.T) {
	repo, mock, db := newCurrencyRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM currencies`).
		WithArgs("USD").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByAbbreviation(context.Background(), "USD")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetByAbbreviationNotFound(t *testing.T) {
	repo, mock, db := newCurrencyRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM currencies WHERE currency_abbreviation`).
		WithArgs("XXX").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByAbbreviation(context.Background(), "XXX")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCurrencySearchUsesKeywordPattern(t *testing.T) {
	repo, mock, db := newCurrencyRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"currency_id", "currency_full_name", "currency_abbreviation",
		"currency_symbol", "currency_flagged", "creator_admin_id", "created_at", "updated_at"}).
		AddRow(int64(5), "United States Dollar", "USD", "$", false, int64(1), now, nil)

	mock.ExpectQuery(`ILIKE`).
		WithArgs("%dollar%").
		WillReturnRows(rows)

	currencies, err := repo.Search(context.Background(), "dollar")
	require.NoError(t, err)
	require.Len(t, currencies, 1)
	assert.Equal(t, "USD", currencies[0].Abbreviation)
}

func TestCurrencyUpdateMissingRow(t *testing.T) {
	repo, mock, db := newCurrencyRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE currencies SET`).
		WithArgs("Euro", "EUR", "€", false, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Currency{
		CurrencyID: 42, FullName: "Euro", Abbreviation: "EUR", Symbol: "€",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
