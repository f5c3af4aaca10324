package domain

import "time"

// Payment statuses. The lifecycle only moves forward:
// PENDING -> VERIFIED -> SUBMITTED.
const (
	StatusPending   = "PENDING"
	StatusVerified  = "VERIFIED"
	StatusSubmitted = "SUBMITTED"
)

// Payment is a captured cross-border payment request. Amount is kept as
// the validated decimal string so the two-fraction-digit input survives
// storage and listing without float rounding.
type Payment struct {
	ID           int64
	CustomerID   *int64
	Amount       string
	Currency     string
	Provider     string
	PayeeAccount string
	PayeeSwift   string
	Status       string
	CreatedAt    time.Time
}

// PaymentRow is the employee review listing shape: the payment joined
// with the originating customer's display name.
type PaymentRow struct {
	ID       int64
	Customer string
	Amount   string
	Currency string
	Provider string
	Status   string
}
