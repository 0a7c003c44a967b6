package bot

import (
	"log/slog"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/bot/handlers"
	"github.com/Proton-105/egeshop-bot/internal/bot/keyboard"
)

// Router dispatches commands, callbacks, and state-aware updates.
type Router struct {
	mu             sync.RWMutex
	commands       map[string]handlers.Handler
	callbacks      map[string]handlers.CallbackHandler
	dispatcher     *Dispatcher
	defaultHandler handlers.Handler
	middlewares    []handlers.Middleware
	log            *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(dispatcher *Dispatcher, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:    make(map[string]handlers.Handler),
		callbacks:   make(map[string]handlers.CallbackHandler),
		dispatcher:  dispatcher,
		middlewares: make([]handlers.Middleware, 0),
		log:         log,
	}
}

// RegisterCommand registers a handler for a bot command.
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = h
}

// RegisterCallback registers a handler for a callback action.
func (r *Router) RegisterCallback(action string, h handlers.CallbackHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[action] = h
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// SetDefault sets the fallback handler for unmatched text updates.
func (r *Router) SetDefault(h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultHandler = h
}

// Route directs the incoming update to the appropriate handler.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	if callback := c.Callback(); callback != nil {
		return r.handleCallback(c, callback.Data)
	}

	return r.handleMessage(c)
}

func (r *Router) handleCallback(c telebot.Context, data string) error {
	action, _, err := keyboard.DecodeCallback(strings.TrimSpace(data))
	if err != nil {
		r.log.Info("undecodable callback payload", slog.String("data", data))
		return nil
	}

	handler := r.getCallbackHandler(action)
	if handler == nil {
		r.log.Info("no callback handler found", slog.String("action", action))
		return nil
	}

	return r.executeHandler(handlers.Handler(handler), c)
}

func (r *Router) handleMessage(c telebot.Context) error {
	text := c.Text()

	if strings.HasPrefix(text, "/") {
		if handler := r.getCommandHandler(commandName(text)); handler != nil {
			return r.executeHandler(handler, c)
		}
	}

	stateHandled, err := r.dispatchState(c)
	if err != nil {
		return err
	}
	if stateHandled {
		return nil
	}

	if handler := r.getDefaultHandler(); handler != nil {
		return r.executeHandler(handler, c)
	}

	return nil
}

// commandName strips bot mentions and arguments, so "/start@egeshop_bot foo"
// routes as "/start".
func commandName(text string) string {
	if idx := strings.IndexAny(text, " @"); idx > 0 {
		return text[:idx]
	}
	return text
}

func (r *Router) dispatchState(c telebot.Context) (bool, error) {
	if r.dispatcher == nil || c == nil || c.Sender() == nil {
		return false, nil
	}

	current, err := r.dispatcher.currentState(c.Sender().ID)
	if err != nil {
		return false, err
	}

	handler := r.dispatcher.getHandler(current)
	if handler == nil {
		return false, nil
	}

	return true, r.executeHandler(handler, c)
}

func (r *Router) executeHandler(h handlers.Handler, c telebot.Context) error {
	wrapped := r.applyMiddlewares(h)
	if wrapped == nil {
		return nil
	}
	return wrapped(c)
}

func (r *Router) getCallbackHandler(action string) handlers.CallbackHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbacks[action]
}

func (r *Router) getCommandHandler(cmd string) handlers.Handler {
	r.mu.RLock()
	handler := r.commands[cmd]
	r.mu.RUnlock()
	return handler
}

func (r *Router) getDefaultHandler() handlers.Handler {
	r.mu.RLock()
	handler := r.defaultHandler
	r.mu.RUnlock()
	return handler
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}
