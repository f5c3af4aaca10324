package server

import (
	"errors"
	"net/http"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/domain"
	"github.com/oaitse/payportal/internal/service"
)

type registerRequest struct {
	FullName      string `json:"full_name"`
	IDNumber      string `json:"id_number"`
	AccountNumber string `json:"account_number"`
	Password      string `json:"password"`
}

type customerLoginRequest struct {
	// The frontend sends the customer's full name in the username field.
	Username      string `json:"username"`
	AccountNumber string `json:"account_number"`
	Password      string `json:"password"`
}

type profileResponse struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	AccountNumber string `json:"account_number"`
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Bad request")
		return
	}

	if fields := validateRegistration(req.FullName, req.IDNumber, req.AccountNumber, req.Password); len(fields) > 0 {
		writeValidationErrors(w, fields)
		return
	}

	err := h.accounts.Register(r.Context(), service.RegisterInput{
		FullName:      req.FullName,
		IDNumber:      req.IDNumber,
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
	})
	if errors.Is(err, domain.ErrDuplicateAccount) {
		writeMessage(w, http.StatusConflict, "Account number already exists")
		return
	}
	if err != nil {
		h.logger.Error("customer registration failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	// No session is granted; the customer logs in explicitly.
	writeMessage(w, http.StatusCreated, "Registered")
}

func (h *Handlers) handleCustomerLogin(w http.ResponseWriter, r *http.Request) {
	var req customerLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Bad request")
		return
	}

	if fields := validateCustomerLogin(req.Username, req.AccountNumber, req.Password); len(fields) > 0 {
		writeValidationErrors(w, fields)
		return
	}

	customer, err := h.accounts.Login(r.Context(), req.Username, req.AccountNumber, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("customer login failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := h.tokens.MintCustomer(customer.ID)
	if err != nil {
		h.logger.Error("customer token mint failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	setSessionCookie(w, auth.CustomerCookie, token, h.tokens.CustomerTTL())
	writeMessage(w, http.StatusOK, "Logged in")
}

func (h *Handlers) handleCustomerLogout(w http.ResponseWriter, r *http.Request) {
	// Clears unconditionally, whether or not a session existed.
	clearSessionCookie(w, auth.CustomerCookie)
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *Handlers) handleCustomerMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := customerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	customer, err := h.accounts.Profile(r.Context(), claims.UID)
	if errors.Is(err, domain.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("customer profile lookup failed", "error", err, "uid", claims.UID)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"user": profileResponse{
			ID:            customer.ID,
			FullName:      customer.FullName,
			AccountNumber: customer.AccountNumber,
		},
	})
}
