package keyboard

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/catalog"
	"github.com/Proton-105/egeshop-bot/internal/i18n"
)

// Builder creates the inline keyboards for every bot screen.
type Builder struct {
	t   i18n.Translator
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(t i18n.Translator, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}

	return &Builder{t: t, log: log}
}

// Welcome builds the single buy button under the welcome message.
func (b *Builder) Welcome() *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(InlineButton{Text: b.text("welcome.buy_button"), Data: ActionBuy}).
		Build()
}

// Subjects builds the subject list, two buttons per row, with a back button.
func (b *Builder) Subjects(subjects []catalog.Subject) *telebot.ReplyMarkup {
	kb := NewInlineKeyboard()

	var row []InlineButton
	for _, subject := range subjects {
		data, ok := b.encode(ActionSubject, subject.Key)
		if !ok {
			continue
		}

		row = append(row, InlineButton{
			Text: fmt.Sprintf(b.text("menu.subject_button"), subject.Title, subject.Price),
			Data: data,
		})

		if len(row) == 2 {
			kb.AddRow(row...)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.AddRow(row...)
	}

	kb.AddRow(InlineButton{Text: b.text("menu.back"), Data: ActionBackStart})

	return kb.Build()
}

// Programs builds the program list for a subject with a back button.
func (b *Builder) Programs(subjectKey string, programs []catalog.Program) *telebot.ReplyMarkup {
	kb := NewInlineKeyboard()

	var row []InlineButton
	for _, program := range programs {
		data, ok := b.encode(ActionProgram, subjectKey, program.Key)
		if !ok {
			continue
		}

		row = append(row, InlineButton{Text: program.Title, Data: data})
		if len(row) == 2 {
			kb.AddRow(row...)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.AddRow(row...)
	}

	kb.AddRow(InlineButton{Text: b.text("menu.back_to_subjects"), Data: ActionBackSubjects})

	return kb.Build()
}

// ProductDetail builds the manager contact link and the back button shown
// under payment instructions.
func (b *Builder) ProductDetail(managerUsername string) *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(InlineButton{
			Text: b.text("menu.contact_manager"),
			URL:  "https://t.me/" + managerUsername,
		}).
		AddRow(InlineButton{Text: b.text("menu.back_to_subjects"), Data: ActionBackSubjects}).
		Build()
}

// AdminPanel builds the two admin maintenance actions.
func (b *Builder) AdminPanel() *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(InlineButton{Text: b.text("admin.broadcast_button"), Data: ActionAdminBroadcast}).
		AddRow(InlineButton{Text: b.text("admin.set_card_button"), Data: ActionAdminSetCard}).
		Build()
}

// BroadcastConfirm builds the confirm/cancel controls under a broadcast preview.
func (b *Builder) BroadcastConfirm() *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(InlineButton{Text: b.text("admin.broadcast_confirm_button"), Data: ActionBroadcastConfirm}).
		AddRow(InlineButton{Text: b.text("admin.broadcast_cancel_button"), Data: ActionBroadcastCancel}).
		Build()
}

func (b *Builder) text(key string) string {
	if b.t == nil {
		return key
	}
	return b.t.T(key)
}

func (b *Builder) encode(action string, params ...string) (string, bool) {
	data, err := EncodeCallback(action, params...)
	if err != nil {
		b.log.Error("failed to encode callback", slog.String("action", action), slog.Any("error", err))
		return "", false
	}
	return data, true
}
