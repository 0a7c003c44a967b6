package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionLockKeyPattern = "session:lock:%d"
	lockTTL               = 5 * time.Second
)

var (
	// ErrInvalidTransition indicates that a requested FSM transition is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrStateNotFound indicates that a session record does not exist.
	ErrStateNotFound = errors.New("session not found")
	// ErrStateLocked indicates that a concurrent operation already holds the lock.
	ErrStateLocked = errors.New("session is locked, try again later")
)

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe FSM transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// StateMachine describes the operations supported by the FSM controller.
type StateMachine interface {
	GetState(ctx context.Context, userID int64) (*Session, error)
	SetState(ctx context.Context, userID int64, state State, data SessionData) error
	TransitionTo(ctx context.Context, userID int64, newState State, data SessionData) error
	ClearState(ctx context.Context, userID int64) error
}

// machine is a concrete implementation of StateMachine backed by Storage and
// optional Redis locking.
type machine struct {
	storage     Storage
	log         *slog.Logger
	redisClient *redis.Client
	localMu     sync.Mutex
}

// NewStateMachine creates a FSM controller using the provided storage backend
// and redis client for locking. Without a redis client a process-local mutex
// guards the read-validate-write sequence instead, so a duplicate transition
// racing through two updates is still rejected within one instance.
func NewStateMachine(storage Storage, log *slog.Logger, redisClient *redis.Client) StateMachine {
	if log == nil {
		log = slog.Default()
	}

	return &machine{
		storage:     storage,
		log:         log,
		redisClient: redisClient,
	}
}

// GetState proxies to the underlying storage implementation.
func (m *machine) GetState(ctx context.Context, userID int64) (*Session, error) {
	return m.storage.GetState(ctx, userID)
}

// SetState composes a Session and persists it via storage under the lock,
// without transition validation.
func (m *machine) SetState(ctx context.Context, userID int64, state State, data SessionData) error {
	if err := m.lock(ctx, userID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID)

	return m.saveSession(ctx, userID, state, data)
}

// TransitionTo changes the state if the transition is allowed, guarded by a lock.
func (m *machine) TransitionTo(ctx context.Context, userID int64, newState State, data SessionData) error {
	if err := m.lock(ctx, userID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID)

	current := StateIdle

	session, err := m.storage.GetState(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			return err
		}
	} else if session != nil {
		current = session.Current
	}

	if !IsTransitionAllowed(current, newState) {
		m.log.Warn("invalid state transition", "user_id", userID, "from", current, "to", newState)
		return ErrInvalidTransition
	}

	transitionRecorder(string(current), string(newState))

	return m.saveSession(ctx, userID, newState, data)
}

// ClearState removes the stored session while holding the lock.
func (m *machine) ClearState(ctx context.Context, userID int64) error {
	if err := m.lock(ctx, userID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID)

	return m.storage.ClearState(ctx, userID)
}

func (m *machine) saveSession(ctx context.Context, userID int64, state State, data SessionData) error {
	session := &Session{
		UserID:  userID,
		Current: state,
		Data:    data,
	}

	return m.storage.SetState(ctx, userID, session)
}

func (m *machine) lock(ctx context.Context, userID int64) error {
	if m.redisClient == nil {
		m.localMu.Lock()
		return nil
	}

	key := fmt.Sprintf(sessionLockKeyPattern, userID)
	acquired, err := m.redisClient.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		m.log.Error("failed to acquire session lock", "user_id", userID, "error", err)
		return err
	}

	if !acquired {
		m.log.Warn("session lock already held", "user_id", userID)
		return ErrStateLocked
	}

	return nil
}

func (m *machine) unlock(ctx context.Context, userID int64) {
	if m.redisClient == nil {
		m.localMu.Unlock()
		return
	}

	key := fmt.Sprintf(sessionLockKeyPattern, userID)
	if err := m.redisClient.Del(ctx, key).Err(); err != nil {
		m.log.Error("failed to release session lock", "user_id", userID, "error", err)
	}
}
