package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// Keys pre-seeded in the settings table by the initial migration.
const (
	KeyCardNumber   = "card_number"
	KeyRecipientFIO = "recipient_fio"
)

// SettingsRepository defines persistence operations for flat key-value settings.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetPaymentDetails(ctx context.Context, cardNumber, recipientFIO string) error
}

type settingsRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSettingsRepository creates a new SQL-backed settings repository.
func NewSettingsRepository(db *sql.DB, log *slog.Logger) SettingsRepository {
	return &settingsRepository{
		db:  db,
		log: log,
	}
}

// Get returns the current value for key, or an empty string when unset.
func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM settings WHERE key = $1`

	var value string
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		if r.log != nil {
			r.log.Error("failed to read setting", slog.String("key", key), slog.Any("error", err))
		}
		return "", fmt.Errorf("select setting %q: %w", key, err)
	}

	return value, nil
}

// Set durably overwrites the value for key.
func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		if r.log != nil {
			r.log.Error("failed to write setting", slog.String("key", key), slog.Any("error", err))
		}
		return fmt.Errorf("upsert setting %q: %w", key, err)
	}

	return nil
}

// SetPaymentDetails writes both payment keys in one transaction so a
// concurrent reader never observes only one of them updated.
func (r *settingsRepository) SetPaymentDetails(ctx context.Context, cardNumber, recipientFIO string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment details tx: %w", err)
	}

	const query = `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	for _, kv := range [][2]string{
		{KeyCardNumber, cardNumber},
		{KeyRecipientFIO, recipientFIO},
	} {
		if _, err := tx.ExecContext(ctx, query, kv[0], kv[1]); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && r.log != nil {
				r.log.Error("payment details rollback failed", slog.Any("error", rbErr))
			}
			return fmt.Errorf("upsert setting %q: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment details: %w", err)
	}

	return nil
}
