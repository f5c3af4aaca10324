package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/config"
	"github.com/oaitse/payportal/internal/metrics"
	"github.com/oaitse/payportal/internal/service"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Accounts       *service.AccountService
	Payments       *service.PaymentService
	Tokens         *auth.Tokens
	Health         Pinger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	RateLimit      config.RateLimitConfig
}

// NewRouter wires the HTTP routes exposed by the portal API.
//
// Middleware order, outermost first: logging, security headers, CORS,
// rate limit, CSRF. CORS runs before the rate limiter so rejected
// pre-flights never consume quota; CSRF runs last so every check it
// fails has already passed origin and throughput policy.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	h := NewHandlers(logger, deps.Accounts, deps.Payments, deps.Tokens, deps.Health)

	r := mux.NewRouter()

	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
		r.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/csrf", h.handleCSRFToken).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", h.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.handleCustomerLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.handleCustomerLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.requireCustomer(h.handleCustomerMe)).Methods(http.MethodGet)

	api.HandleFunc("/payments", h.handleCapturePayment).Methods(http.MethodPost)

	api.HandleFunc("/employee/login", h.handleEmployeeLogin).Methods(http.MethodPost)
	api.HandleFunc("/employee/logout", h.handleEmployeeLogout).Methods(http.MethodPost)
	api.HandleFunc("/employee/me", h.requireEmployee(h.handleEmployeeMe)).Methods(http.MethodGet)
	api.HandleFunc("/employee/payments", h.requireEmployee(h.handleListPayments)).Methods(http.MethodGet)
	api.HandleFunc("/employee/verify/{id}", h.requireEmployee(h.handleVerifyPayment)).Methods(http.MethodPost)
	api.HandleFunc("/employee/submit", h.requireEmployee(h.requireAdmin(h.handleSubmitVerified))).Methods(http.MethodPost)

	handler := csrfMiddleware(r)
	if deps.RateLimit.Max > 0 {
		handler = newRateLimiter(deps.RateLimit.Max, deps.RateLimit.Window).middleware(handler)
	}
	if len(deps.AllowedOrigins) > 0 {
		handler = corsMiddleware(deps.AllowedOrigins, true)(handler)
	}
	handler = securityHeaders(handler)
	return loggingMiddleware(logger, handler)
}
