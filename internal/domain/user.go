package domain

import "time"

// User represents a registered bot user stored in the database.
type User struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	RegisteredAt time.Time
}

// PaymentDetails is the payment information shown on the product screen.
type PaymentDetails struct {
	CardNumber   string
	RecipientFIO string
}
