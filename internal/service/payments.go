package service

import (
	"context"
	"strings"

	"github.com/oaitse/payportal/internal/domain"
)

// Ledger is the storage contract required by the payment service.
type Ledger interface {
	CreatePayment(ctx context.Context, p domain.Payment) (int64, error)
	ListPayments(ctx context.Context, status string) ([]domain.PaymentRow, error)
	VerifyPayment(ctx context.Context, id int64) error
	SubmitVerified(ctx context.Context) (int64, error)
}

// PaymentService drives the payment lifecycle:
// PENDING -> VERIFIED -> SUBMITTED.
type PaymentService struct {
	ledger Ledger
}

// CaptureInput carries a validated payment capture request. CustomerID
// is set when the request arrived with a valid customer session.
type CaptureInput struct {
	CustomerID   *int64
	Amount       string
	Currency     string
	Provider     string
	PayeeAccount string
	PayeeSwift   string
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(ledger Ledger) *PaymentService {
	return &PaymentService{ledger: ledger}
}

// Capture persists a new payment in the PENDING state.
func (s *PaymentService) Capture(ctx context.Context, in CaptureInput) (int64, error) {
	return s.ledger.CreatePayment(ctx, domain.Payment{
		CustomerID:   in.CustomerID,
		Amount:       in.Amount,
		Currency:     in.Currency,
		Provider:     in.Provider,
		PayeeAccount: in.PayeeAccount,
		PayeeSwift:   in.PayeeSwift,
	})
}

// List returns review rows, optionally filtered by status. The filter
// accepts any input case and is compared against the stored uppercase
// values; empty means all.
func (s *PaymentService) List(ctx context.Context, status string) ([]domain.PaymentRow, error) {
	return s.ledger.ListPayments(ctx, strings.ToUpper(strings.TrimSpace(status)))
}

// Verify advances one payment from PENDING to VERIFIED. The underlying
// store applies the transition conditionally, so concurrent calls for
// the same id succeed at most once.
func (s *PaymentService) Verify(ctx context.Context, id int64) error {
	return s.ledger.VerifyPayment(ctx, id)
}

// SubmitAll advances every VERIFIED payment to SUBMITTED and reports
// how many rows moved.
func (s *PaymentService) SubmitAll(ctx context.Context) (int64, error) {
	return s.ledger.SubmitVerified(ctx)
}
