package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/bot/keyboard"
	"github.com/Proton-105/egeshop-bot/internal/broadcast"
	apperrors "github.com/Proton-105/egeshop-bot/internal/errors"
	"github.com/Proton-105/egeshop-bot/internal/i18n"
	"github.com/Proton-105/egeshop-bot/internal/settings"
	"github.com/Proton-105/egeshop-bot/internal/state"
)

const testAdminID = int64(42)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeContext implements the telebot.Context methods the handlers touch and
// records outgoing messages.
type fakeContext struct {
	telebot.Context

	sender   *telebot.User
	text     string
	callback *telebot.Callback

	sent   []string
	edited []string
}

func (c *fakeContext) Sender() *telebot.User       { return c.sender }
func (c *fakeContext) Text() string                { return c.text }
func (c *fakeContext) Callback() *telebot.Callback { return c.callback }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func (c *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	c.edited = append(c.edited, fmt.Sprint(what))
	return nil
}

func (c *fakeContext) Respond(_ ...*telebot.CallbackResponse) error { return nil }

type stubSettingsRepo struct {
	writes int
}

func (r *stubSettingsRepo) Get(context.Context, string) (string, error) { return "", nil }

func (r *stubSettingsRepo) Set(context.Context, string, string) error {
	r.writes++
	return nil
}

func (r *stubSettingsRepo) SetPaymentDetails(context.Context, string, string) error {
	r.writes++
	return nil
}

type stubUserSource struct {
	ids []int64
	err error
}

func (s *stubUserSource) ListIDs(context.Context) ([]int64, error) { return s.ids, s.err }

type recordingSender struct {
	sent []int64
}

func (s *recordingSender) Send(_ context.Context, userID int64, _ string) error {
	s.sent = append(s.sent, userID)
	return nil
}

func newTestTranslator(t *testing.T) i18n.Translator {
	t.Helper()

	mgr, err := i18n.LoadFromDir("../../i18n", "ru")
	require.NoError(t, err)

	return mgr.Translator("ru")
}

func newTestAdminHandler(
	t *testing.T,
	fsm state.StateMachine,
	sender broadcast.Sender,
	users broadcast.UserSource,
	repo *stubSettingsRepo,
	maxTextLen int,
) *AdminHandler {
	t.Helper()

	tr := newTestTranslator(t)
	log := testLogger()

	return NewAdminHandler(
		context.Background(),
		testAdminID,
		maxTextLen,
		fsm,
		keyboard.NewBuilder(tr, log),
		tr,
		broadcast.NewDispatcher(sender, users, 0, log),
		settings.NewService(repo, log),
		log,
	)
}

func newMemoryFSM() state.StateMachine {
	return state.NewStateMachine(state.NewMemoryStorage(), testLogger(), nil)
}

func TestAdminHandler_BroadcastTextTruncation(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		wantText string
	}{
		{
			name:     "over the limit is cut to the limit",
			input:    "абвгдеёжзийклмн",
			wantText: "абвгдеёжзи",
		},
		{
			name:     "under the limit stays unmodified",
			input:    "привет",
			wantText: "привет",
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  привет  ",
			wantText: "привет",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			fsm := newMemoryFSM()
			ctx := context.Background()
			require.NoError(t, fsm.SetState(ctx, testAdminID, state.StateAwaitingBroadcastText, nil))

			h := newTestAdminHandler(t, fsm, &recordingSender{}, &stubUserSource{}, &stubSettingsRepo{}, 10)
			c := &fakeContext{sender: &telebot.User{ID: testAdminID}, text: tc.input}

			require.NoError(t, h.HandleBroadcastText(c))

			session, err := fsm.GetState(ctx, testAdminID)
			require.NoError(t, err)
			assert.Equal(t, state.StateAwaitingBroadcastConfirm, session.Current)

			draft, ok := session.Data.(state.BroadcastDraft)
			require.True(t, ok)
			assert.Equal(t, tc.wantText, draft.Text)

			require.Len(t, c.sent, 1)
			assert.Contains(t, c.sent[0], tc.wantText)
		})
	}
}

func TestAdminHandler_EmptyBroadcastTextRejected(t *testing.T) {
	fsm := newMemoryFSM()
	require.NoError(t, fsm.SetState(context.Background(), testAdminID, state.StateAwaitingBroadcastText, nil))

	h := newTestAdminHandler(t, fsm, &recordingSender{}, &stubUserSource{}, &stubSettingsRepo{}, 10)
	c := &fakeContext{sender: &telebot.User{ID: testAdminID}, text: "   "}

	err := h.HandleBroadcastText(c)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "E200", appErr.Code)

	session, err := fsm.GetState(context.Background(), testAdminID)
	require.NoError(t, err)
	assert.Equal(t, state.StateAwaitingBroadcastText, session.Current)
}

func TestAdminHandler_NonAdminIsDenied(t *testing.T) {
	fsm := newMemoryFSM()
	repo := &stubSettingsRepo{}
	h := newTestAdminHandler(t, fsm, &recordingSender{}, &stubUserSource{}, repo, 4000)

	stranger := &telebot.User{ID: 555}
	attempts := []struct {
		name string
		call func(c telebot.Context) error
	}{
		{name: "panel", call: h.HandlePanel},
		{name: "broadcast start", call: h.HandleBroadcastStart},
		{name: "set card start", call: h.HandleSetCardStart},
		{name: "broadcast confirm", call: h.HandleBroadcastConfirm},
	}

	for _, attempt := range attempts {
		attempt := attempt
		t.Run(attempt.name, func(t *testing.T) {
			c := &fakeContext{sender: stranger, callback: &telebot.Callback{ID: "cb-1"}}

			err := attempt.call(c)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "E100", appErr.Code)
		})
	}

	_, err := fsm.GetState(context.Background(), stranger.ID)
	assert.ErrorIs(t, err, state.ErrStateNotFound)
	assert.Zero(t, repo.writes)
}

func TestCancelHandler_AfterTextEntryDeliversNothing(t *testing.T) {
	fsm := newMemoryFSM()
	ctx := context.Background()
	sender := &recordingSender{}

	require.NoError(t, fsm.SetState(ctx, testAdminID, state.StateAwaitingBroadcastConfirm, state.BroadcastDraft{Text: "черновик"}))

	cancel := NewCancelHandler(fsm, newTestTranslator(t), testLogger())
	c := &fakeContext{sender: &telebot.User{ID: testAdminID}, text: "/cancel"}

	require.NoError(t, cancel(c))

	_, err := fsm.GetState(ctx, testAdminID)
	assert.ErrorIs(t, err, state.ErrStateNotFound)
	assert.Empty(t, sender.sent)
	require.Len(t, c.sent, 1)
	assert.Equal(t, "Операция отменена.", c.sent[0])
}

func TestCancelHandler_RefusedWhileDispatching(t *testing.T) {
	fsm := newMemoryFSM()
	ctx := context.Background()
	require.NoError(t, fsm.SetState(ctx, testAdminID, state.StateDispatching, state.BroadcastDraft{Text: "идёт"}))

	cancel := NewCancelHandler(fsm, newTestTranslator(t), testLogger())
	c := &fakeContext{sender: &telebot.User{ID: testAdminID}, text: "/cancel"}

	require.NoError(t, cancel(c))

	session, err := fsm.GetState(ctx, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, state.StateDispatching, session.Current)
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "Рассылка уже запущена")
}

func TestAdminHandler_BroadcastConfirmRunsDispatch(t *testing.T) {
	fsm := newMemoryFSM()
	ctx := context.Background()
	sender := &recordingSender{}
	users := &stubUserSource{ids: []int64{1, 2, 3}}

	require.NoError(t, fsm.SetState(ctx, testAdminID, state.StateAwaitingBroadcastConfirm, state.BroadcastDraft{Text: "привет"}))

	h := newTestAdminHandler(t, fsm, sender, users, &stubSettingsRepo{}, 4000)
	c := &fakeContext{sender: &telebot.User{ID: testAdminID}, callback: &telebot.Callback{ID: "cb-confirm"}}

	require.NoError(t, h.HandleBroadcastConfirm(c))

	assert.Equal(t, []int64{1, 2, 3}, sender.sent)
	require.Len(t, c.sent, 1)
	assert.Equal(t, "Готово. Отправлено: 3. Не доставлено: 0.", c.sent[0])

	_, err := fsm.GetState(ctx, testAdminID)
	assert.ErrorIs(t, err, state.ErrStateNotFound)
}

func TestAdminHandler_BroadcastConfirmReportsFailure(t *testing.T) {
	fsm := newMemoryFSM()
	ctx := context.Background()
	sender := &recordingSender{}
	users := &stubUserSource{err: errors.New("connection refused")}

	require.NoError(t, fsm.SetState(ctx, testAdminID, state.StateAwaitingBroadcastConfirm, state.BroadcastDraft{Text: "привет"}))

	h := newTestAdminHandler(t, fsm, sender, users, &stubSettingsRepo{}, 4000)
	c := &fakeContext{sender: &telebot.User{ID: testAdminID}, callback: &telebot.Callback{ID: "cb-confirm"}}

	require.NoError(t, h.HandleBroadcastConfirm(c))

	assert.Empty(t, sender.sent)
	require.Len(t, c.sent, 1)
	assert.Equal(t, "Не удалось запустить рассылку. Попробуйте позже.", c.sent[0])
	for _, msg := range c.sent {
		assert.False(t, strings.HasPrefix(msg, "Готово."), "failed run must not produce a completion report")
	}

	_, err := fsm.GetState(ctx, testAdminID)
	assert.ErrorIs(t, err, state.ErrStateNotFound)
}

func TestAdminHandler_TextWhileAwaitingConfirmIsIgnored(t *testing.T) {
	fsm := newMemoryFSM()
	ctx := context.Background()
	require.NoError(t, fsm.SetState(ctx, testAdminID, state.StateAwaitingBroadcastConfirm, state.BroadcastDraft{Text: "черновик"}))

	h := newTestAdminHandler(t, fsm, &recordingSender{}, &stubUserSource{}, &stubSettingsRepo{}, 4000)
	c := &fakeContext{sender: &telebot.User{ID: testAdminID}, text: "что-то ещё"}

	require.NoError(t, h.HandleAwaitingConfirm(c))

	assert.Empty(t, c.sent)
	assert.Empty(t, c.edited)

	session, err := fsm.GetState(ctx, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, state.StateAwaitingBroadcastConfirm, session.Current)

	draft, ok := session.Data.(state.BroadcastDraft)
	require.True(t, ok)
	assert.Equal(t, "черновик", draft.Text)
}

func TestAdminHandler_PaymentDetailsFlow(t *testing.T) {
	fsm := newMemoryFSM()
	ctx := context.Background()
	repo := &stubSettingsRepo{}
	h := newTestAdminHandler(t, fsm, &recordingSender{}, &stubUserSource{}, repo, 4000)

	require.NoError(t, fsm.SetState(ctx, testAdminID, state.StateAwaitingCardNumber, nil))

	card := &fakeContext{sender: &telebot.User{ID: testAdminID}, text: "1234 5678 9012 3456"}
	require.NoError(t, h.HandleCardNumber(card))

	session, err := fsm.GetState(ctx, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, state.StateAwaitingRecipientFIO, session.Current)

	fio := &fakeContext{sender: &telebot.User{ID: testAdminID}, text: "Иванов Иван Иванович"}
	require.NoError(t, h.HandleRecipientFIO(fio))

	assert.Equal(t, 1, repo.writes)

	_, err = fsm.GetState(ctx, testAdminID)
	assert.ErrorIs(t, err, state.ErrStateNotFound)

	require.Len(t, fio.sent, 1)
	assert.Contains(t, fio.sent[0], "1234 5678 9012 3456")
	assert.Contains(t, fio.sent[0], "Иванов Иван Иванович")
}
