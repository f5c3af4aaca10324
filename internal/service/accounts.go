package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/domain"
)

// CredentialStore is the storage contract required by the account service.
type CredentialStore interface {
	CreateCustomer(ctx context.Context, c domain.Customer) (int64, error)
	CustomerByLogin(ctx context.Context, fullName, accountNumber string) (domain.Customer, error)
	CustomerByID(ctx context.Context, id int64) (domain.Customer, error)
	EmployeeByUsername(ctx context.Context, username string) (domain.Employee, error)
}

// AccountService handles registration and credential verification for
// both customer and employee identities.
type AccountService struct {
	store  CredentialStore
	hasher auth.Hasher
}

// RegisterInput carries a validated customer registration.
type RegisterInput struct {
	FullName      string
	IDNumber      string
	AccountNumber string
	Password      string
}

// NewAccountService constructs an AccountService.
func NewAccountService(store CredentialStore, hasher auth.Hasher) *AccountService {
	return &AccountService{store: store, hasher: hasher}
}

// Register hashes the password and persists the customer. No session is
// granted; the customer logs in explicitly afterwards. Returns
// domain.ErrDuplicateAccount when the account number is taken.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) error {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.store.CreateCustomer(ctx, domain.Customer{
		FullName:      in.FullName,
		IDNumber:      in.IDNumber,
		AccountNumber: in.AccountNumber,
		PasswordHash:  hash,
	})
	return err
}

// Login verifies a customer's credentials. An unknown (name, account)
// pair and a wrong password both return domain.ErrInvalidCredentials so
// the caller cannot tell which part failed.
func (s *AccountService) Login(ctx context.Context, fullName, accountNumber, password string) (domain.Customer, error) {
	c, err := s.store.CustomerByLogin(ctx, fullName, accountNumber)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Customer{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Customer{}, err
	}
	if !s.hasher.Compare(c.PasswordHash, password) {
		return domain.Customer{}, domain.ErrInvalidCredentials
	}
	return c, nil
}

// Profile returns the customer behind a verified session token.
func (s *AccountService) Profile(ctx context.Context, id int64) (domain.Customer, error) {
	return s.store.CustomerByID(ctx, id)
}

// EmployeeLogin verifies an employee's credentials with the same
// indistinguishable failure path as Login.
func (s *AccountService) EmployeeLogin(ctx context.Context, username, password string) (domain.Employee, error) {
	e, err := s.store.EmployeeByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Employee{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Employee{}, err
	}
	if !s.hasher.Compare(e.PasswordHash, password) {
		return domain.Employee{}, domain.ErrInvalidCredentials
	}
	return e, nil
}
