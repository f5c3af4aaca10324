package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oaitse/payportal/internal/domain"
)

// maxBodyBytes caps JSON request bodies at 10 KiB.
const maxBodyBytes = 10 << 10

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"message": msg,
	})
}

func writeValidationErrors(w http.ResponseWriter, fields []domain.FieldError) {
	respondJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Invalid input",
		"errors":  fields,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(dst)
}
