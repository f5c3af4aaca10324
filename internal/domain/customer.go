package domain

import "time"

// Customer is a registered portal customer. The account number is the
// uniqueness key; records are never updated or deleted once created.
type Customer struct {
	ID            int64
	FullName      string
	IDNumber      string
	AccountNumber string
	PasswordHash  string
	CreatedAt     time.Time
}
