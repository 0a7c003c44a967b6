// Package settings exposes the mutable payment details shown to buyers.
package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Proton-105/egeshop-bot/internal/domain"
	"github.com/Proton-105/egeshop-bot/internal/repository"
	"github.com/Proton-105/egeshop-bot/pkg/metrics"
)

// Service provides business operations over the settings store.
type Service struct {
	repo repository.SettingsRepository
	log  *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(repo repository.SettingsRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{repo: repo, log: log}
}

// PaymentDetails reads the current card number and recipient name. Values are
// fetched at call time, never cached, so admin updates are visible to every
// subsequent render.
func (s *Service) PaymentDetails(ctx context.Context) (domain.PaymentDetails, error) {
	card, err := s.repo.Get(ctx, repository.KeyCardNumber)
	if err != nil {
		return domain.PaymentDetails{}, fmt.Errorf("read card number: %w", err)
	}

	fio, err := s.repo.Get(ctx, repository.KeyRecipientFIO)
	if err != nil {
		return domain.PaymentDetails{}, fmt.Errorf("read recipient fio: %w", err)
	}

	return domain.PaymentDetails{CardNumber: card, RecipientFIO: fio}, nil
}

// UpdatePaymentDetails persists both payment keys transactionally.
func (s *Service) UpdatePaymentDetails(ctx context.Context, details domain.PaymentDetails) error {
	if err := s.repo.SetPaymentDetails(ctx, details.CardNumber, details.RecipientFIO); err != nil {
		s.log.Error("failed to update payment details", slog.Any("error", err))
		return err
	}

	metrics.RecordSettingsUpdate()
	s.log.Info("payment details updated")

	return nil
}
