package state

// validTransitions contains the permitted non-reset transitions in the FSM.
// Dispatching is deliberately absent as a source: once a broadcast run has
// started only the reset to idle is possible, which also rejects a duplicate
// confirm arriving mid-run.
var validTransitions = map[State][]State{
	StateIdle: {
		StateAwaitingBroadcastText,
		StateAwaitingCardNumber,
	},
	StateAwaitingBroadcastText: {
		StateAwaitingBroadcastConfirm,
	},
	StateAwaitingBroadcastConfirm: {
		StateDispatching,
	},
	StateAwaitingCardNumber: {
		StateAwaitingRecipientFIO,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
func IsTransitionAllowed(from, to State) bool {
	if to == StateIdle {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}
