package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepository(db, nil)

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(KeyCardNumber).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("1234 5678 9012 3456"))

	value, err := repo.Get(context.Background(), KeyCardNumber)
	require.NoError(t, err)
	assert.Equal(t, "1234 5678 9012 3456", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_GetMissingKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepository(db, nil)

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	value, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepository(db, nil)

	mock.ExpectExec("INSERT INTO settings").
		WithArgs(KeyRecipientFIO, "Иванов Иван Иванович").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Set(context.Background(), KeyRecipientFIO, "Иванов Иван Иванович")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_SetPaymentDetails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO settings").
		WithArgs(KeyCardNumber, "1111 2222 3333 4444").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO settings").
		WithArgs(KeyRecipientFIO, "Петров Пётр").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.SetPaymentDetails(context.Background(), "1111 2222 3333 4444", "Петров Пётр")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_SetPaymentDetailsRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO settings").
		WithArgs(KeyCardNumber, "1111").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = repo.SetPaymentDetails(context.Background(), "1111", "Петров Пётр")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
