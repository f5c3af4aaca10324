package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

// Double-submit CSRF: GET /api/csrf hands the client a random token in
// both the response body and the _csrf cookie; every state-changing
// request must echo it back in the X-CSRF-Token header.
const (
	csrfCookieName = "_csrf"
	csrfHeaderName = "X-CSRF-Token"
)

func (h *Handlers) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{
		"csrfToken": token,
	})
}

// csrfMiddleware verifies the header/cookie pair on every mutating
// request. The 403 body is distinct from role-based 403s so clients can
// tell a stale token from a permissions problem.
func csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		header := r.Header.Get(csrfHeaderName)
		if err != nil || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
			writeMessage(w, http.StatusForbidden, "Invalid CSRF token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
