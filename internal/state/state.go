package state

import "time"

// State represents a finite-state machine state of the admin conversation.
type State string

const (
	// StateIdle indicates that no multi-step flow is active.
	StateIdle State = "idle"
	// StateAwaitingBroadcastText indicates the admin was asked for broadcast text.
	StateAwaitingBroadcastText State = "awaiting_broadcast_text"
	// StateAwaitingBroadcastConfirm indicates a broadcast draft awaits confirm/cancel.
	StateAwaitingBroadcastConfirm State = "awaiting_broadcast_confirm"
	// StateDispatching indicates a broadcast run is in progress; no admin
	// command is accepted until it completes.
	StateDispatching State = "dispatching"
	// StateAwaitingCardNumber indicates the admin was asked for a card number.
	StateAwaitingCardNumber State = "awaiting_card_number"
	// StateAwaitingRecipientFIO indicates the admin was asked for the recipient name.
	StateAwaitingRecipientFIO State = "awaiting_recipient_fio"
)

// SessionData is the state-specific payload of a session. Each variant
// carries exactly the fields meaningful in its state, so invalid field
// combinations cannot be represented.
type SessionData interface {
	sessionData()
}

// BroadcastDraft carries the pending broadcast text while it awaits
// confirmation and during dispatch.
type BroadcastDraft struct {
	Text string
}

func (BroadcastDraft) sessionData() {}

// PaymentDraft carries the entered card number until the recipient name
// arrives and both are persisted together.
type PaymentDraft struct {
	CardNumber string
}

func (PaymentDraft) sessionData() {}

// Session captures the current FSM state for the administrator.
type Session struct {
	UserID    int64
	Current   State
	Data      SessionData
	UpdatedAt time.Time
}
