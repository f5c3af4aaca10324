package store

import (
	"context"
	"sync"
	"time"

	"github.com/oaitse/payportal/internal/domain"
)

// Memory is an in-process Store used for tests and for running the
// server without a database. All state is lost on restart.
type Memory struct {
	mu sync.Mutex

	customers map[int64]domain.Customer
	byAccount map[string]int64
	employees map[string]domain.Employee
	payments  []domain.Payment

	customerSeq int64
	employeeSeq int64
	paymentSeq  int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		customers: make(map[int64]domain.Customer),
		byAccount: make(map[string]int64),
		employees: make(map[string]domain.Employee),
	}
}

func (m *Memory) CreateCustomer(_ context.Context, c domain.Customer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byAccount[c.AccountNumber]; exists {
		return 0, domain.ErrDuplicateAccount
	}

	m.customerSeq++
	c.ID = m.customerSeq
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	m.customers[c.ID] = c
	m.byAccount[c.AccountNumber] = c.ID
	return c.ID, nil
}

func (m *Memory) CustomerByLogin(_ context.Context, fullName, accountNumber string) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byAccount[accountNumber]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	c := m.customers[id]
	if c.FullName != fullName {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *Memory) CustomerByID(_ context.Context, id int64) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *Memory) CreateEmployee(_ context.Context, e domain.Employee) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.employees[e.Username]; exists {
		return 0, domain.ErrDuplicateAccount
	}

	m.employeeSeq++
	e.ID = m.employeeSeq
	m.employees[e.Username] = e
	return e.ID, nil
}

func (m *Memory) EmployeeByUsername(_ context.Context, username string) (domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[username]
	if !ok {
		return domain.Employee{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *Memory) CreatePayment(_ context.Context, p domain.Payment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.paymentSeq++
	p.ID = m.paymentSeq
	p.Status = domain.StatusPending
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.payments = append(m.payments, p)
	return p.ID, nil
}

func (m *Memory) ListPayments(_ context.Context, status string) ([]domain.PaymentRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.PaymentRow
	// payments is append-only and id-ordered; walk backwards for
	// newest-first.
	for i := len(m.payments) - 1; i >= 0; i-- {
		p := m.payments[i]
		if status != "" && p.Status != status {
			continue
		}
		customer := "(unknown)"
		if p.CustomerID != nil {
			if c, ok := m.customers[*p.CustomerID]; ok {
				customer = c.FullName
			}
		}
		result = append(result, domain.PaymentRow{
			ID:       p.ID,
			Customer: customer,
			Amount:   p.Amount,
			Currency: p.Currency,
			Provider: p.Provider,
			Status:   p.Status,
		})
	}
	return result, nil
}

func (m *Memory) VerifyPayment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.payments {
		if m.payments[i].ID != id {
			continue
		}
		if m.payments[i].Status != domain.StatusPending {
			return domain.ErrNothingToVerify
		}
		m.payments[i].Status = domain.StatusVerified
		return nil
	}
	return domain.ErrNothingToVerify
}

func (m *Memory) SubmitVerified(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for i := range m.payments {
		if m.payments[i].Status == domain.StatusVerified {
			m.payments[i].Status = domain.StatusSubmitted
			count++
		}
	}
	return count, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
