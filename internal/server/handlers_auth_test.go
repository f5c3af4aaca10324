package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/domain"
	"github.com/oaitse/payportal/internal/service"
	"github.com/oaitse/payportal/internal/store"
)

type testEnv struct {
	handlers *Handlers
	store    *store.Memory
	tokens   *auth.Tokens
	hasher   auth.Hasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemory()
	hasher := auth.NewHasher(4)
	tokens := auth.NewTokens("test-secret", time.Hour, 2*time.Hour)
	accounts := service.NewAccountService(st, hasher)
	payments := service.NewPaymentService(st)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		handlers: NewHandlers(logger, accounts, payments, tokens, st),
		store:    st,
		tokens:   tokens,
		hasher:   hasher,
	}
}

func (e *testEnv) seedCustomer(t *testing.T, fullName, accountNumber, password string) int64 {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	id, err := e.store.CreateCustomer(context.Background(), domain.Customer{
		FullName:      fullName,
		IDNumber:      "9001015009087",
		AccountNumber: accountNumber,
		PasswordHash:  hash,
	})
	if err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return id
}

func (e *testEnv) seedEmployee(t *testing.T, username, role, password string) int64 {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	id, err := e.store.CreateEmployee(context.Background(), domain.Employee{
		Username:     username,
		Role:         role,
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}
	return id
}

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload.Message
}

func TestHandleRegister(t *testing.T) {
	env := newTestEnv(t)

	req := postJSON(t, "/api/auth/register", map[string]string{
		"full_name":      "Jane Doe",
		"id_number":      "9001015009087",
		"account_number": "1234567890",
		"password":       "Str0ng!Pass",
	})
	rec := httptest.NewRecorder()
	env.handlers.handleRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeMessage(t, rec); msg != "Registered" {
		t.Fatalf("expected message Registered, got %q", msg)
	}
	if cookies := rec.Result().Cookies(); len(cookies) != 0 {
		t.Fatalf("register must not grant a session, got %d cookies", len(cookies))
	}
}

func TestHandleRegisterDuplicateAccount(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(t, "Jane Doe", "1234567890", "Str0ng!Pass")

	req := postJSON(t, "/api/auth/register", map[string]string{
		"full_name":      "John Roe",
		"id_number":      "8001015009086",
		"account_number": "1234567890",
		"password":       "An0ther!Pass",
	})
	rec := httptest.NewRecorder()
	env.handlers.handleRegister(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Account number already exists" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestHandleRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	req := postJSON(t, "/api/auth/register", map[string]string{
		"full_name":      "J",
		"id_number":      "123",
		"account_number": "12",
		"password":       "weak",
	})
	rec := httptest.NewRecorder()
	env.handlers.handleRegister(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var payload struct {
		Message string             `json:"message"`
		Errors  []domain.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Message != "Invalid input" {
		t.Fatalf("unexpected message %q", payload.Message)
	}
	if len(payload.Errors) != 4 {
		t.Fatalf("expected all 4 fields rejected, got %d: %v", len(payload.Errors), payload.Errors)
	}
}

func TestHandleCustomerLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	uid := env.seedCustomer(t, "Jane Doe", "1234567890", "Str0ng!Pass")

	req := postJSON(t, "/api/auth/login", map[string]string{
		"username":       "Jane Doe",
		"account_number": "1234567890",
		"password":       "Str0ng!Pass",
	})
	rec := httptest.NewRecorder()
	env.handlers.handleCustomerLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeMessage(t, rec); msg != "Logged in" {
		t.Fatalf("unexpected message %q", msg)
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CustomerCookie {
			session = c
		}
	}
	if session == nil {
		t.Fatalf("expected %s cookie to be set", auth.CustomerCookie)
	}
	if !session.HttpOnly || !session.Secure || session.SameSite != http.SameSiteNoneMode {
		t.Fatalf("session cookie missing security attributes: %+v", session)
	}

	claims, err := env.tokens.VerifyCustomer(session.Value)
	if err != nil {
		t.Fatalf("session cookie does not verify: %v", err)
	}
	if claims.UID != uid {
		t.Fatalf("expected uid %d in token, got %d", uid, claims.UID)
	}
}

func TestHandleCustomerLoginFailureIsIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(t, "Jane Doe", "1234567890", "Str0ng!Pass")

	cases := []struct {
		name string
		body map[string]string
	}{
		{"unknown account", map[string]string{
			"username": "Jane Doe", "account_number": "9999999999", "password": "Str0ng!Pass",
		}},
		{"wrong name", map[string]string{
			"username": "John Roe", "account_number": "1234567890", "password": "Str0ng!Pass",
		}},
		{"wrong password", map[string]string{
			"username": "Jane Doe", "account_number": "1234567890", "password": "Wr0ng!Pass",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.handlers.handleCustomerLogin(rec, postJSON(t, "/api/auth/login", tc.body))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rec.Code)
			}
			if msg := decodeMessage(t, rec); msg != "Invalid credentials" {
				t.Fatalf("unexpected message %q", msg)
			}
		})
	}
}

func TestHandleCustomerMe(t *testing.T) {
	env := newTestEnv(t)
	uid := env.seedCustomer(t, "Jane Doe", "1234567890", "Str0ng!Pass")
	token, err := env.tokens.MintCustomer(uid)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CustomerCookie, Value: token})
	rec := httptest.NewRecorder()
	env.handlers.requireCustomer(env.handlers.handleCustomerMe)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		OK   bool            `json:"ok"`
		User profileResponse `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.OK || payload.User.ID != uid || payload.User.FullName != "Jane Doe" {
		t.Fatalf("unexpected profile payload: %+v", payload)
	}
}

func TestHandleCustomerMeRejectsBadSessions(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	env.handlers.requireCustomer(env.handlers.handleCustomerMe)(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without cookie, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Not logged in" {
		t.Fatalf("unexpected message %q", msg)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CustomerCookie, Value: "not-a-jwt"})
	rec = httptest.NewRecorder()
	env.handlers.requireCustomer(env.handlers.handleCustomerMe)(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with garbage token, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Invalid session" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestHandleCustomerMeRejectsEmployeeToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedEmployee(t, "reviewer", domain.RoleEmployee, "Emp!oyee1Pass")
	token, err := env.tokens.MintEmployee(domain.Employee{ID: 1, Username: "reviewer", Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CustomerCookie, Value: token})
	rec := httptest.NewRecorder()
	env.handlers.requireCustomer(env.handlers.handleCustomerMe)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for cross-audience token, got %d", rec.Code)
	}
}

func TestHandleCustomerLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	env.handlers.handleCustomerLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CustomerCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected %s cookie to be expired", auth.CustomerCookie)
	}
}
