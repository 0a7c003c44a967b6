package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewAccessDeniedError marks a non-administrator attempt at an admin-only
// action. Visible to the user, not reported as an operational error.
func NewAccessDeniedError() *AppError {
	return &AppError{
		Code:        "E100",
		Message:     "access denied",
		UserMessage: "Доступ запрещён.",
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E200",
		Message:     msg,
		UserMessage: fmt.Sprintf("Неверный формат данных. %s", msg),
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("Database error: %s", underlyingMsg),
		UserMessage: "Временная проблема, попробуйте позже",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewDeliveryError wraps a per-recipient broadcast failure. It is counted
// and logged but never shown to the recipient.
func NewDeliveryError(userID int64, cause error) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     fmt.Sprintf("Delivery to %d failed", userID),
		UserMessage: "",
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       cause,
	}
}

func NewStateError(msg string) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     msg,
		UserMessage: "Операция невозможна в текущем состоянии",
		Severity:    SeverityMedium,
		Retryable:   false,
		cause:       nil,
	}
}
