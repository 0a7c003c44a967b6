package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/bot/handlers"
	"github.com/Proton-105/egeshop-bot/internal/state"
)

// Dispatcher routes incoming text updates to state-specific handlers.
type Dispatcher struct {
	fsm           state.StateMachine
	stateHandlers map[state.State]handlers.Handler
	log           *slog.Logger
	mu            sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(fsm state.StateMachine, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		fsm:           fsm,
		stateHandlers: make(map[state.State]handlers.Handler),
		log:           log,
	}
}

// RegisterStateHandler registers a handler for the provided state.
func (d *Dispatcher) RegisterStateHandler(s state.State, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stateHandlers[s] = h
}

// Dispatch routes the update based on the user's current state.
func (d *Dispatcher) Dispatch(c telebot.Context) error {
	if c == nil || c.Sender() == nil {
		d.log.Warn("cannot dispatch without sender information")
		return nil
	}

	current, err := d.currentState(c.Sender().ID)
	if err != nil {
		return err
	}

	handler := d.getHandler(current)
	if handler == nil {
		return nil
	}

	return handler(c)
}

func (d *Dispatcher) currentState(userID int64) (state.State, error) {
	session, err := d.fsm.GetState(context.Background(), userID)
	if err != nil {
		if errors.Is(err, state.ErrStateNotFound) {
			return state.StateIdle, nil
		}
		return state.StateIdle, err
	}

	return session.Current, nil
}

func (d *Dispatcher) getHandler(s state.State) handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stateHandlers[s]
}
