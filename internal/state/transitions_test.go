package state

import "testing"

func TestIsTransitionAllowed(t *testing.T) {
	testCases := []struct {
		name     string
		from     State
		to       State
		expected bool
	}{
		{name: "idle to broadcast text", from: StateIdle, to: StateAwaitingBroadcastText, expected: true},
		{name: "idle to card number", from: StateIdle, to: StateAwaitingCardNumber, expected: true},
		{name: "broadcast text to confirm", from: StateAwaitingBroadcastText, to: StateAwaitingBroadcastConfirm, expected: true},
		{name: "confirm to dispatching", from: StateAwaitingBroadcastConfirm, to: StateDispatching, expected: true},
		{name: "card number to recipient fio", from: StateAwaitingCardNumber, to: StateAwaitingRecipientFIO, expected: true},
		{name: "idle straight to confirm invalid", from: StateIdle, to: StateAwaitingBroadcastConfirm, expected: false},
		{name: "idle straight to dispatching invalid", from: StateIdle, to: StateDispatching, expected: false},
		{name: "dispatching to dispatching invalid", from: StateDispatching, to: StateDispatching, expected: false},
		{name: "dispatching to confirm invalid", from: StateDispatching, to: StateAwaitingBroadcastConfirm, expected: false},
		{name: "card flow into broadcast flow invalid", from: StateAwaitingCardNumber, to: StateAwaitingBroadcastText, expected: false},
		{name: "unknown source invalid", from: State("unknown"), to: StateAwaitingBroadcastText, expected: false},
		{name: "any state resets to idle", from: StateDispatching, to: StateIdle, expected: true},
		{name: "unknown state resets to idle", from: State("whatever"), to: StateIdle, expected: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := IsTransitionAllowed(tc.from, tc.to); actual != tc.expected {
				t.Errorf("IsTransitionAllowed(%s -> %s) = %t, expected %t", tc.from, tc.to, actual, tc.expected)
			}
		})
	}
}
