// Package store persists customers, employees, and the payment ledger.
//
// Status transitions are expressed as conditional updates inside the
// store (compare-and-set on the current status), never as read-then-write
// in caller code, so each transition applies at most once under
// concurrent requests.
package store

import (
	"context"

	"github.com/oaitse/payportal/internal/domain"
)

// Store is the persistence boundary shared by the Postgres and
// in-memory implementations.
type Store interface {
	// CreateCustomer persists a new customer and returns its id.
	// Returns domain.ErrDuplicateAccount when the account number exists.
	CreateCustomer(ctx context.Context, c domain.Customer) (int64, error)

	// CustomerByLogin looks a customer up by the (full name, account
	// number) pair. Returns domain.ErrNotFound when no row matches.
	CustomerByLogin(ctx context.Context, fullName, accountNumber string) (domain.Customer, error)

	// CustomerByID returns the customer with the given id or
	// domain.ErrNotFound.
	CustomerByID(ctx context.Context, id int64) (domain.Customer, error)

	// CreateEmployee persists a pre-provisioned employee record.
	CreateEmployee(ctx context.Context, e domain.Employee) (int64, error)

	// EmployeeByUsername returns the employee with the given username
	// or domain.ErrNotFound.
	EmployeeByUsername(ctx context.Context, username string) (domain.Employee, error)

	// CreatePayment persists a payment with status PENDING regardless
	// of the status on the input value, and returns its id.
	CreatePayment(ctx context.Context, p domain.Payment) (int64, error)

	// ListPayments returns payments joined with the originating
	// customer's name, newest first by id. status filters on the stored
	// uppercase value; empty string returns all rows. Payments without
	// a customer link report "(unknown)".
	ListPayments(ctx context.Context, status string) ([]domain.PaymentRow, error)

	// VerifyPayment transitions a payment from PENDING to VERIFIED.
	// Returns domain.ErrNothingToVerify when the payment does not exist
	// or is not currently PENDING. The update is conditional on the
	// stored status.
	VerifyPayment(ctx context.Context, id int64) error

	// SubmitVerified transitions every VERIFIED payment to SUBMITTED
	// and returns the number of rows affected.
	SubmitVerified(ctx context.Context) (int64, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
