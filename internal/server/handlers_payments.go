package server

import (
	"net/http"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/service"
)

type capturePaymentRequest struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Provider     string `json:"provider"`
	PayeeAccount string `json:"payee_account"`
	PayeeSwift   string `json:"payee_swift"`
}

// handleCapturePayment accepts a payment without requiring a session.
// When a valid customer token accompanies the request the payment is
// linked to that customer; otherwise it is captured unlinked.
func (h *Handlers) handleCapturePayment(w http.ResponseWriter, r *http.Request) {
	var req capturePaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Bad request")
		return
	}

	if fields := validatePayment(req.Amount, req.Currency, req.Provider, req.PayeeAccount, req.PayeeSwift); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}

	input := service.CaptureInput{
		Amount:       req.Amount,
		Currency:     req.Currency,
		Provider:     req.Provider,
		PayeeAccount: req.PayeeAccount,
		PayeeSwift:   req.PayeeSwift,
	}
	if cookie, err := r.Cookie(auth.CustomerCookie); err == nil {
		if claims, err := h.tokens.VerifyCustomer(cookie.Value); err == nil {
			uid := claims.UID
			input.CustomerID = &uid
		}
	}

	if _, err := h.payments.Capture(r.Context(), input); err != nil {
		h.logger.Error("payment capture failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeMessage(w, http.StatusCreated, "Payment captured")
}
