package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Proton-105/egeshop-bot/internal/domain"
)

// UserRepository defines persistence operations for registered users.
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	ListIDs(ctx context.Context) ([]int64, error)
}

type userRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewUserRepository creates a new SQL-backed user repository.
func NewUserRepository(db *sql.DB, log *slog.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

// Upsert inserts the user or refreshes display fields and the registration
// timestamp when the telegram id is already known.
func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO users (telegram_id, username, first_name, last_name, registered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    registered_at = EXCLUDED.registered_at
	`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.RegisteredAt,
	); err != nil {
		if r.log != nil {
			r.log.Error("failed to upsert user", slog.Int64("telegram_id", user.TelegramID), slog.Any("error", err))
		}
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

// ListIDs returns every registered telegram id. Order is not significant.
func (r *userRepository) ListIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT telegram_id FROM users`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to list user ids", slog.Any("error", err))
		}
		return nil, fmt.Errorf("select user ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}

	return ids, nil
}
