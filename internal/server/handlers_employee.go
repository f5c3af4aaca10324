package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/domain"
)

type employeeLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type paymentRowResponse struct {
	ID       int64  `json:"id"`
	Customer string `json:"customer"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Provider string `json:"provider"`
	Status   string `json:"status"`
}

func (h *Handlers) handleEmployeeLogin(w http.ResponseWriter, r *http.Request) {
	var req employeeLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Bad request")
		return
	}

	if fields := validateEmployeeLogin(req.Username, req.Password); len(fields) > 0 {
		writeValidationErrors(w, fields)
		return
	}

	emp, err := h.accounts.EmployeeLogin(r.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("employee login failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := h.tokens.MintEmployee(emp)
	if err != nil {
		h.logger.Error("employee token mint failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	setSessionCookie(w, auth.EmployeeCookie, token, h.tokens.EmployeeTTL())
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Logged in",
		"role":    emp.Role,
	})
}

func (h *Handlers) handleEmployeeMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := employeeFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"role":   claims.Role,
		"userId": claims.ID,
	})
}

func (h *Handlers) handleListPayments(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" {
		switch strings.ToLower(status) {
		case "pending", "verified", "submitted":
		default:
			writeValidationErrors(w, []domain.FieldError{
				{Field: "status", Message: "must be pending, verified, or submitted"},
			})
			return
		}
	}

	rows, err := h.payments.List(r.Context(), status)
	if err != nil {
		h.logger.Error("payment listing failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	resp := make([]paymentRowResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, paymentRowResponse{
			ID:       row.ID,
			Customer: row.Customer,
			Amount:   row.Amount,
			Currency: row.Currency,
			Provider: row.Provider,
			Status:   row.Status,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	// A non-numeric id behaves like id 0: nothing to verify.
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	err := h.payments.Verify(r.Context(), id)
	if errors.Is(err, domain.ErrNothingToVerify) {
		writeMessage(w, http.StatusBadRequest, "Nothing to verify")
		return
	}
	if err != nil {
		h.logger.Error("payment verify failed", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Marked as verified",
		"id":      id,
	})
}

func (h *Handlers) handleSubmitVerified(w http.ResponseWriter, r *http.Request) {
	count, err := h.payments.SubmitAll(r.Context())
	if err != nil {
		h.logger.Error("payment submit failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Submitted verified items",
		"count":   count,
	})
}

func (h *Handlers) handleEmployeeLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, auth.EmployeeCookie)
	writeMessage(w, http.StatusOK, "Logged out")
}
