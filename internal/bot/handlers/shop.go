package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/bot/keyboard"
	apperrors "github.com/Proton-105/egeshop-bot/internal/errors"
	"github.com/Proton-105/egeshop-bot/internal/menu"
	"github.com/Proton-105/egeshop-bot/internal/settings"
)

// ShopHandler serves the storefront navigation callbacks. Screens are edited
// in place so the chat does not accumulate stale menus.
type ShopHandler struct {
	renderer *menu.Renderer
	settings *settings.Service
	log      *slog.Logger
}

// NewShopHandler constructs the storefront callback handlers.
func NewShopHandler(renderer *menu.Renderer, settingsService *settings.Service, log *slog.Logger) *ShopHandler {
	if log == nil {
		log = slog.Default()
	}

	return &ShopHandler{
		renderer: renderer,
		settings: settingsService,
		log:      log,
	}
}

// HandleBuy shows the subject list.
func (h *ShopHandler) HandleBuy(c telebot.Context) error {
	defer h.ack(c)

	view := h.renderer.Subjects()
	return c.Edit(view.Text, view.Markup, telebot.ModeMarkdown)
}

// HandleSubject shows the program list for the selected subject.
func (h *ShopHandler) HandleSubject(c telebot.Context) error {
	defer h.ack(c)

	params, err := h.params(c, 1)
	if err != nil {
		return err
	}

	view, err := h.renderer.Programs(params[0])
	if err != nil {
		return apperrors.NewValidationError("выбранный предмет не найден")
	}

	return c.Edit(view.Text, view.Markup, telebot.ModeMarkdown)
}

// HandleProgram shows payment instructions for the selected subject and
// program. Payment details are read from storage on every render so an admin
// update is visible immediately.
func (h *ShopHandler) HandleProgram(c telebot.Context) error {
	defer h.ack(c)

	params, err := h.params(c, 2)
	if err != nil {
		return err
	}

	details, err := h.settings.PaymentDetails(context.Background())
	if err != nil {
		return err
	}

	view, err := h.renderer.ProductDetail(params[0], params[1], details)
	if err != nil {
		return apperrors.NewValidationError("выбранная программа не найдена")
	}

	return c.Edit(view.Text, view.Markup, telebot.ModeMarkdown)
}

// HandleBackStart returns to the welcome screen.
func (h *ShopHandler) HandleBackStart(c telebot.Context) error {
	defer h.ack(c)

	view := h.renderer.Welcome()
	return c.Edit(view.Text, view.Markup, telebot.ModeMarkdown)
}

// HandleBackSubjects returns to the subject list.
func (h *ShopHandler) HandleBackSubjects(c telebot.Context) error {
	defer h.ack(c)

	view := h.renderer.Subjects()
	return c.Edit(view.Text, view.Markup, telebot.ModeMarkdown)
}

func (h *ShopHandler) params(c telebot.Context, want int) ([]string, error) {
	cb := c.Callback()
	if cb == nil {
		return nil, apperrors.NewValidationError("ожидался callback")
	}

	_, params, err := keyboard.DecodeCallback(cb.Data)
	if err != nil || len(params) < want {
		h.log.Warn("malformed callback payload", slog.String("data", cb.Data))
		return nil, apperrors.NewValidationError("некорректные данные кнопки")
	}

	return params, nil
}

func (h *ShopHandler) ack(c telebot.Context) {
	if c.Callback() == nil {
		return
	}
	if err := c.Respond(); err != nil {
		h.log.Debug("failed to answer callback", slog.Any("error", err))
	}
}
