package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/bot/keyboard"
	"github.com/Proton-105/egeshop-bot/internal/broadcast"
	"github.com/Proton-105/egeshop-bot/internal/domain"
	apperrors "github.com/Proton-105/egeshop-bot/internal/errors"
	"github.com/Proton-105/egeshop-bot/internal/i18n"
	"github.com/Proton-105/egeshop-bot/internal/settings"
	"github.com/Proton-105/egeshop-bot/internal/state"
)

// AdminHandler serves the administrator panel: the broadcast flow and the
// payment-details flow. Both are conversations driven by the state machine.
type AdminHandler struct {
	baseCtx     context.Context
	adminID     int64
	maxTextLen  int
	fsm         state.StateMachine
	kb          *keyboard.Builder
	t           i18n.Translator
	broadcaster *broadcast.Dispatcher
	settings    *settings.Service
	log         *slog.Logger
}

// NewAdminHandler constructs the admin flow handlers. baseCtx bounds the
// lifetime of broadcast runs so shutdown interrupts an in-flight dispatch.
func NewAdminHandler(
	baseCtx context.Context,
	adminID int64,
	maxTextLen int,
	fsm state.StateMachine,
	kb *keyboard.Builder,
	t i18n.Translator,
	broadcaster *broadcast.Dispatcher,
	settingsService *settings.Service,
	log *slog.Logger,
) *AdminHandler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if log == nil {
		log = slog.Default()
	}

	return &AdminHandler{
		baseCtx:     baseCtx,
		adminID:     adminID,
		maxTextLen:  maxTextLen,
		fsm:         fsm,
		kb:          kb,
		t:           t,
		broadcaster: broadcaster,
		settings:    settingsService,
		log:         log,
	}
}

// HandlePanel shows the admin panel for /admin.
func (h *AdminHandler) HandlePanel(c telebot.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	return c.Send(h.t.T("admin.panel_title"), h.kb.AdminPanel())
}

// HandleBroadcastStart enters the broadcast flow and asks for the text.
func (h *AdminHandler) HandleBroadcastStart(c telebot.Context) error {
	h.ack(c)
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	if err := h.beginFlow(c, state.StateAwaitingBroadcastText); err != nil {
		return err
	}

	return c.Send(fmt.Sprintf(h.t.T("admin.broadcast_prompt"), h.maxTextLen))
}

// HandleBroadcastText accepts the broadcast text and shows a preview with
// confirm and cancel controls. Text over the limit is cut to the limit.
func (h *AdminHandler) HandleBroadcastText(c telebot.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	text := strings.TrimSpace(c.Text())
	if text == "" {
		return apperrors.NewValidationError("текст рассылки не может быть пустым")
	}

	if runes := []rune(text); len(runes) > h.maxTextLen {
		text = string(runes[:h.maxTextLen])
	}

	userID := c.Sender().ID
	err := h.fsm.TransitionTo(context.Background(), userID, state.StateAwaitingBroadcastConfirm, state.BroadcastDraft{Text: text})
	if err != nil {
		return err
	}

	return c.Send(fmt.Sprintf(h.t.T("admin.broadcast_preview"), text), h.kb.BroadcastConfirm())
}

// HandleBroadcastConfirm launches the broadcast. The transition into the
// dispatching state is what rejects a duplicate confirmation.
func (h *AdminHandler) HandleBroadcastConfirm(c telebot.Context) error {
	h.ack(c)
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	ctx := context.Background()
	userID := c.Sender().ID

	session, err := h.fsm.GetState(ctx, userID)
	if err != nil {
		if errors.Is(err, state.ErrStateNotFound) {
			return apperrors.NewStateError("нет рассылки для подтверждения")
		}
		return err
	}

	draft, ok := session.Data.(state.BroadcastDraft)
	if !ok || session.Current != state.StateAwaitingBroadcastConfirm {
		if session.Current == state.StateDispatching {
			return c.Send(h.t.T("admin.busy_dispatching"))
		}
		return apperrors.NewStateError("нет рассылки для подтверждения")
	}

	if err := h.fsm.TransitionTo(ctx, userID, state.StateDispatching, draft); err != nil {
		if errors.Is(err, state.ErrInvalidTransition) || errors.Is(err, state.ErrStateLocked) {
			return c.Send(h.t.T("admin.busy_dispatching"))
		}
		return err
	}

	if err := c.Edit(h.t.T("admin.broadcast_started")); err != nil {
		h.log.Debug("failed to edit preview message", slog.Any("error", err))
	}

	report, runErr := h.broadcaster.Run(h.baseCtx, draft.Text)

	if err := h.fsm.ClearState(ctx, userID); err != nil {
		h.log.Error("failed to clear state after broadcast", slog.Int64("user_id", userID), slog.Any("error", err))
	}

	if runErr != nil {
		h.log.Error("broadcast failed", slog.Any("error", runErr))
		return c.Send(h.t.T("admin.broadcast_failed"))
	}

	return c.Send(fmt.Sprintf(h.t.T("admin.broadcast_report"), report.Sent, report.Failed))
}

// HandleBroadcastCancel aborts the broadcast flow before dispatch.
func (h *AdminHandler) HandleBroadcastCancel(c telebot.Context) error {
	h.ack(c)
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	if err := h.fsm.ClearState(context.Background(), c.Sender().ID); err != nil {
		return err
	}

	return c.Edit(h.t.T("admin.broadcast_cancelled"))
}

// HandleSetCardStart enters the payment-details flow and asks for the card.
func (h *AdminHandler) HandleSetCardStart(c telebot.Context) error {
	h.ack(c)
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	if err := h.beginFlow(c, state.StateAwaitingCardNumber); err != nil {
		return err
	}

	return c.Send(h.t.T("admin.card_prompt"))
}

// HandleCardNumber stores the card number draft and asks for the recipient.
func (h *AdminHandler) HandleCardNumber(c telebot.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	card := strings.TrimSpace(c.Text())
	if card == "" {
		return apperrors.NewValidationError("номер карты не может быть пустым")
	}

	userID := c.Sender().ID
	err := h.fsm.TransitionTo(context.Background(), userID, state.StateAwaitingRecipientFIO, state.PaymentDraft{CardNumber: card})
	if err != nil {
		return err
	}

	return c.Send(h.t.T("admin.fio_prompt"))
}

// HandleRecipientFIO persists both payment details atomically and ends the flow.
func (h *AdminHandler) HandleRecipientFIO(c telebot.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	fio := strings.TrimSpace(c.Text())
	if fio == "" {
		return apperrors.NewValidationError("ФИО получателя не может быть пустым")
	}

	ctx := context.Background()
	userID := c.Sender().ID

	session, err := h.fsm.GetState(ctx, userID)
	if err != nil {
		return err
	}

	draft, ok := session.Data.(state.PaymentDraft)
	if !ok {
		return apperrors.NewStateError("номер карты не был введён")
	}

	details := domain.PaymentDetails{
		CardNumber:   draft.CardNumber,
		RecipientFIO: fio,
	}

	if err := h.settings.UpdatePaymentDetails(ctx, details); err != nil {
		return err
	}

	if err := h.fsm.ClearState(ctx, userID); err != nil {
		h.log.Error("failed to clear state after settings update", slog.Int64("user_id", userID), slog.Any("error", err))
	}

	return c.Send(fmt.Sprintf(h.t.T("admin.details_updated"), details.CardNumber, details.RecipientFIO))
}

// HandleDispatching answers any input received while a broadcast is running.
func (h *AdminHandler) HandleDispatching(c telebot.Context) error {
	return c.Send(h.t.T("admin.busy_dispatching"))
}

// HandleAwaitingConfirm swallows text typed while the preview awaits a button
// press, leaving the draft untouched.
func (h *AdminHandler) HandleAwaitingConfirm(c telebot.Context) error {
	return nil
}

// beginFlow moves the admin into the first state of a flow. A stale unfinished
// flow is dropped first; a running broadcast refuses new flows.
func (h *AdminHandler) beginFlow(c telebot.Context, target state.State) error {
	ctx := context.Background()
	userID := c.Sender().ID

	session, err := h.fsm.GetState(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrStateNotFound) {
		return err
	}

	if session != nil {
		if session.Current == state.StateDispatching {
			return c.Send(h.t.T("admin.busy_dispatching"))
		}
		if session.Current != state.StateIdle {
			if err := h.fsm.ClearState(ctx, userID); err != nil {
				return err
			}
		}
	}

	return h.fsm.TransitionTo(ctx, userID, target, nil)
}

func (h *AdminHandler) requireAdmin(c telebot.Context) error {
	if c == nil || c.Sender() == nil || c.Sender().ID != h.adminID {
		return apperrors.NewAccessDeniedError()
	}
	return nil
}

func (h *AdminHandler) ack(c telebot.Context) {
	if c.Callback() == nil {
		return
	}
	if err := c.Respond(); err != nil {
		h.log.Debug("failed to answer callback", slog.Any("error", err))
	}
}
