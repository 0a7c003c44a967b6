// Package menu renders the stateless browsing screens. Rendering is a pure
// function of the selection path and the values passed in; payment details
// are supplied by the caller at render time and never cached here.
package menu

import (
	"fmt"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/catalog"
	"github.com/Proton-105/egeshop-bot/internal/domain"
	"github.com/Proton-105/egeshop-bot/internal/i18n"
)

// View is a rendered screen: formatted text plus its inline keyboard.
type View struct {
	Text   string
	Markup *telebot.ReplyMarkup
}

// Renderer builds screen views from the catalog and the copy catalog.
type Renderer struct {
	t               i18n.Translator
	kb              KeyboardBuilder
	managerUsername string
}

// KeyboardBuilder abstracts the inline keyboards attached to each screen.
type KeyboardBuilder interface {
	Welcome() *telebot.ReplyMarkup
	Subjects(subjects []catalog.Subject) *telebot.ReplyMarkup
	Programs(subjectKey string, programs []catalog.Program) *telebot.ReplyMarkup
	ProductDetail(managerUsername string) *telebot.ReplyMarkup
}

// NewRenderer constructs a Renderer.
func NewRenderer(t i18n.Translator, kb KeyboardBuilder, managerUsername string) *Renderer {
	return &Renderer{
		t:               t,
		kb:              kb,
		managerUsername: managerUsername,
	}
}

// Welcome renders the welcome screen. The same render serves /start and the
// back-to-start button, so round-trip navigation always lands on identical
// content.
func (r *Renderer) Welcome() View {
	return View{
		Text:   r.t.T("welcome.text"),
		Markup: r.kb.Welcome(),
	}
}

// Subjects renders the subject list screen.
func (r *Renderer) Subjects() View {
	return View{
		Text:   r.t.T("menu.choose_subject"),
		Markup: r.kb.Subjects(catalog.Subjects()),
	}
}

// Programs renders the program list for the selected subject.
func (r *Renderer) Programs(subjectKey string) (View, error) {
	subject, ok := catalog.FindSubject(subjectKey)
	if !ok {
		return View{}, fmt.Errorf("unknown subject %q", subjectKey)
	}

	return View{
		Text:   fmt.Sprintf(r.t.T("menu.choose_program"), subject.Title),
		Markup: r.kb.Programs(subject.Key, catalog.Programs()),
	}, nil
}

// ProductDetail renders payment instructions for the selected subject and
// program using the payment details fetched by the caller.
func (r *Renderer) ProductDetail(subjectKey, programKey string, details domain.PaymentDetails) (View, error) {
	subject, ok := catalog.FindSubject(subjectKey)
	if !ok {
		return View{}, fmt.Errorf("unknown subject %q", subjectKey)
	}

	program, ok := catalog.FindProgram(programKey)
	if !ok {
		return View{}, fmt.Errorf("unknown program %q", programKey)
	}

	text := fmt.Sprintf(
		r.t.T("menu.product_detail"),
		subject.Title,
		program.Title,
		subject.Price,
		details.CardNumber,
		details.RecipientFIO,
		r.managerUsername,
	)

	return View{
		Text:   text,
		Markup: r.kb.ProductDetail(r.managerUsername),
	}, nil
}
