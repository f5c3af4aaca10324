package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/domain"
	"github.com/oaitse/payportal/internal/service"
)

type contextKey int

const (
	customerClaimsKey contextKey = iota
	employeeClaimsKey
)

// Handlers exposes the HTTP handlers for the portal API.
type Handlers struct {
	logger   *slog.Logger
	accounts *service.AccountService
	payments *service.PaymentService
	tokens   *auth.Tokens
	health   Pinger
}

// NewHandlers constructs a Handlers instance.
func NewHandlers(logger *slog.Logger, accounts *service.AccountService, payments *service.PaymentService, tokens *auth.Tokens, health Pinger) *Handlers {
	return &Handlers{
		logger:   logger,
		accounts: accounts,
		payments: payments,
		tokens:   tokens,
		health:   health,
	}
}

// setSessionCookie writes a signed session token cookie. Cookies are
// Secure + SameSite=None so the cross-site frontend can carry them.
func setSessionCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// requireCustomer rejects requests without a valid customer session
// token and stores the claims on the request context.
func (h *Handlers) requireCustomer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.CustomerCookie)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not logged in")
			return
		}
		claims, err := h.tokens.VerifyCustomer(cookie.Value)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid session")
			return
		}
		ctx := context.WithValue(r.Context(), customerClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// requireEmployee rejects requests without a valid employee session
// token. Both roles pass; admin-only routes stack requireAdmin on top.
func (h *Handlers) requireEmployee(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.EmployeeCookie)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		claims, err := h.tokens.VerifyEmployee(cookie.Value)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid session")
			return
		}
		ctx := context.WithValue(r.Context(), employeeClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// requireAdmin must run inside requireEmployee.
func (h *Handlers) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := employeeFromContext(r.Context())
		if !ok || claims.Role != domain.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Admin only")
			return
		}
		next(w, r)
	}
}

func customerFromContext(ctx context.Context) (auth.CustomerClaims, bool) {
	claims, ok := ctx.Value(customerClaimsKey).(auth.CustomerClaims)
	return claims, ok
}

func employeeFromContext(ctx context.Context) (auth.EmployeeClaims, bool) {
	claims, ok := ctx.Value(employeeClaimsKey).(auth.EmployeeClaims)
	return claims, ok
}
