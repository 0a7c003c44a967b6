package keyboard_test

import (
	"testing"

	"github.com/Proton-105/egeshop-bot/internal/bot/keyboard"
)

func TestInlineKeyboardBuilder(t *testing.T) {
	markup := keyboard.NewInlineKeyboard().
		AddRow(
			keyboard.InlineButton{Text: "A", Data: "a"},
			keyboard.InlineButton{Text: "B", Data: "b"},
		).
		AddRow(keyboard.InlineButton{Text: "Link", URL: "https://t.me/qwuzinw"}).
		AddRow().
		Build()

	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(markup.InlineKeyboard))
	}

	first := markup.InlineKeyboard[0]
	if len(first) != 2 || first[0].Data != "a" || first[1].Text != "B" {
		t.Fatalf("unexpected first row: %+v", first)
	}

	second := markup.InlineKeyboard[1]
	if len(second) != 1 || second[0].URL != "https://t.me/qwuzinw" {
		t.Fatalf("unexpected second row: %+v", second)
	}
}
