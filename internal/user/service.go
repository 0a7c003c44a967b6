// Package user provides business operations over registered users.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/domain"
	"github.com/Proton-105/egeshop-bot/internal/repository"
	"github.com/Proton-105/egeshop-bot/pkg/metrics"
)

// Service provides business operations over users.
type Service struct {
	repo repository.UserRepository
	log  *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(repo repository.UserRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{repo: repo, log: log}
}

// Register upserts the sender into the user registry with a fresh timestamp.
// Re-registration overwrites display fields and preserves the identity.
func (s *Service) Register(ctx context.Context, telegramUser *telebot.User) error {
	if telegramUser == nil {
		return errors.New("telegram user is nil")
	}

	record := &domain.User{
		TelegramID:   telegramUser.ID,
		Username:     telegramUser.Username,
		FirstName:    telegramUser.FirstName,
		LastName:     telegramUser.LastName,
		RegisteredAt: time.Now().UTC(),
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		s.log.Error("failed to register user", slog.Int64("telegram_id", telegramUser.ID), slog.Any("error", err))
		return fmt.Errorf("register user: %w", err)
	}

	metrics.RecordUserRegistration()

	return nil
}

// ListIDs returns all registered telegram ids.
func (s *Service) ListIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		s.log.Error("failed to list registered users", slog.Any("error", err))
		return nil, err
	}

	return ids, nil
}
