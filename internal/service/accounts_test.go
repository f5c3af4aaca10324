package service

import (
	"context"
	"errors"
	"testing"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/domain"
	"github.com/oaitse/payportal/internal/store"
)

// bcrypt's minimum cost keeps these tests fast; production cost comes
// from config.
func testHasher() auth.Hasher { return auth.NewHasher(4) }

func seedCustomer(t *testing.T, svc *AccountService) {
	t.Helper()
	err := svc.Register(context.Background(), RegisterInput{
		FullName:      "Mary Jane",
		IDNumber:      "8001015009087",
		AccountNumber: "1234567890",
		Password:      "Abcd123!",
	})
	if err != nil {
		t.Fatalf("seed register: %v", err)
	}
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	svc := NewAccountService(store.NewMemory(), testHasher())
	seedCustomer(t, svc)

	c, err := svc.Login(context.Background(), "Mary Jane", "1234567890", "Abcd123!")
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if c.FullName != "Mary Jane" {
		t.Fatalf("unexpected customer: %+v", c)
	}
}

func TestAccountService_RegisterDuplicateAccount(t *testing.T) {
	svc := NewAccountService(store.NewMemory(), testHasher())
	seedCustomer(t, svc)

	err := svc.Register(context.Background(), RegisterInput{
		FullName:      "Someone Else",
		IDNumber:      "9001015009087",
		AccountNumber: "1234567890",
		Password:      "Abcd123!",
	})
	if !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestAccountService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc := NewAccountService(store.NewMemory(), testHasher())
	seedCustomer(t, svc)

	cases := []struct {
		name, fullName, account, password string
	}{
		{"unknown pair", "Nobody Here", "1234567890", "Abcd123!"},
		{"wrong account", "Mary Jane", "9999999999", "Abcd123!"},
		{"wrong password", "Mary Jane", "1234567890", "Abcd123?"},
		{"one char off", "Mary Jane", "1234567890", "Abcd124!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.fullName, tc.account, tc.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAccountService_EmployeeLogin(t *testing.T) {
	mem := store.NewMemory()
	svc := NewAccountService(mem, testHasher())

	hash, err := testHasher().Hash("Sup3rSecret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := mem.CreateEmployee(context.Background(), domain.Employee{
		Username:     "jo.reviewer",
		Email:        "jo@example.com",
		Role:         domain.RoleEmployee,
		PasswordHash: hash,
	}); err != nil {
		t.Fatalf("create employee: %v", err)
	}

	emp, err := svc.EmployeeLogin(context.Background(), "jo.reviewer", "Sup3rSecret!")
	if err != nil {
		t.Fatalf("expected employee login to succeed, got %v", err)
	}
	if emp.Role != domain.RoleEmployee {
		t.Fatalf("unexpected role %q", emp.Role)
	}

	if _, err := svc.EmployeeLogin(context.Background(), "jo.reviewer", "wrongpass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.EmployeeLogin(context.Background(), "ghost.user", "Sup3rSecret!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestPaymentService_ListUppercasesFilter(t *testing.T) {
	mem := store.NewMemory()
	pay := NewPaymentService(mem)

	if _, err := pay.Capture(context.Background(), CaptureInput{
		Amount: "10.00", Currency: "USD", Provider: "SWIFT",
		PayeeAccount: "1234567890", PayeeSwift: "ABCDUS33",
	}); err != nil {
		t.Fatalf("capture: %v", err)
	}

	rows, err := pay.List(context.Background(), "pending")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected lowercase filter to match stored PENDING, got %d rows", len(rows))
	}

	rows, err = pay.List(context.Background(), "Verified")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no verified rows, got %d", len(rows))
	}
}
