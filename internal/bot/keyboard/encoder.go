package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

// Callback actions routed by the bot. Payloads are opaque strings of the form
// action|param|param.
const (
	ActionBuy              = "buy"
	ActionSubject          = "subj"
	ActionProgram          = "school"
	ActionBackStart        = "back_start"
	ActionBackSubjects     = "back_subjects"
	ActionAdminBroadcast   = "admin_broadcast"
	ActionAdminSetCard     = "admin_set_card"
	ActionBroadcastConfirm = "broadcast_confirm"
	ActionBroadcastCancel  = "broadcast_cancel"
)

const (
	// CallbackDataSeparator joins the action and its parameters.
	CallbackDataSeparator = "|"
	// CallbackDataLimitBytes is the Telegram callback payload limit.
	CallbackDataLimitBytes = 64
)

// EncodeCallback joins an action and its parameters into a callback payload,
// enforcing the platform byte limit.
func EncodeCallback(action string, params ...string) (string, error) {
	parts := append([]string{action}, params...)
	payload := strings.Join(parts, CallbackDataSeparator)

	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("callback data exceeds %d byte limit: got %d", CallbackDataLimitBytes, len(payload))
	}

	return payload, nil
}

// DecodeCallback splits a callback payload into its action and parameters.
func DecodeCallback(callbackData string) (action string, params []string, err error) {
	if callbackData == "" {
		return "", nil, errors.New("callback data is empty")
	}

	parts := strings.Split(callbackData, CallbackDataSeparator)
	return parts[0], parts[1:], nil
}
