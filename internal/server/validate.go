package server

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/oaitse/payportal/internal/domain"
)

// Input whitelists. The character classes and length bounds are policy
// and must not drift; validation failures always report every failing
// field at once.
var (
	// 2-60 chars, letters and . ' - space, must start and end with a letter.
	nameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]{1,58}[A-Za-z]$`)
	// National id: exactly 13 digits.
	idNumberRE = regexp.MustCompile(`^[0-9]{13}$`)
	// Bank account number: 10-16 digits.
	accountRE = regexp.MustCompile(`^[0-9]{10,16}$`)
	// Employee username: letters, digits, dot, underscore; 3-32 chars.
	usernameRE = regexp.MustCompile(`^[a-zA-Z0-9._]{3,32}$`)
	// Decimal amount with at most two fraction digits.
	amountRE = regexp.MustCompile(`^(?:\d+)(?:\.\d{1,2})?$`)
	// ISO currency: exactly 3 uppercase letters.
	currencyRE = regexp.MustCompile(`^[A-Z]{3}$`)
	// SWIFT/BIC: 8 or 11 alphanumeric characters.
	swiftRE = regexp.MustCompile(`^[A-Z0-9]{8}(?:[A-Z0-9]{3})?$`)
)

const supportedProvider = "SWIFT"

// validPassword enforces the customer password policy: 8-64 chars with
// at least one lowercase letter, one uppercase letter, one digit, and
// one symbol (anything outside [A-Za-z0-9_] and whitespace).
func validPassword(password string) bool {
	runes := []rune(password)
	if len(runes) < 8 || len(runes) > 64 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range runes {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r != '_' && !unicode.IsSpace(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

func validateRegistration(fullName, idNumber, accountNumber, password string) []domain.FieldError {
	var fields []domain.FieldError
	if !nameRE.MatchString(fullName) {
		fields = append(fields, domain.FieldError{Field: "full_name", Message: "must be 2-60 letters, spaces, hyphens, apostrophes, or periods"})
	}
	if !idNumberRE.MatchString(idNumber) {
		fields = append(fields, domain.FieldError{Field: "id_number", Message: "must be exactly 13 digits"})
	}
	if !accountRE.MatchString(accountNumber) {
		fields = append(fields, domain.FieldError{Field: "account_number", Message: "must be 10-16 digits"})
	}
	if !validPassword(password) {
		fields = append(fields, domain.FieldError{Field: "password", Message: "must be 8-64 chars with lower, upper, digit, and symbol"})
	}
	return fields
}

func validateCustomerLogin(fullName, accountNumber, password string) []domain.FieldError {
	var fields []domain.FieldError
	if !nameRE.MatchString(fullName) {
		fields = append(fields, domain.FieldError{Field: "username", Message: "must be 2-60 letters, spaces, hyphens, apostrophes, or periods"})
	}
	if !accountRE.MatchString(accountNumber) {
		fields = append(fields, domain.FieldError{Field: "account_number", Message: "must be 10-16 digits"})
	}
	if len(password) < 8 {
		fields = append(fields, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	return fields
}

func validateEmployeeLogin(username, password string) []domain.FieldError {
	var fields []domain.FieldError
	if !usernameRE.MatchString(username) {
		fields = append(fields, domain.FieldError{Field: "username", Message: "must be 3-32 letters, digits, dots, or underscores"})
	}
	if len(password) < 8 || len(password) > 128 {
		fields = append(fields, domain.FieldError{Field: "password", Message: "must be 8-128 characters"})
	}
	return fields
}

func validatePayment(amount, currency, provider, payeeAccount, payeeSwift string) []domain.FieldError {
	var fields []domain.FieldError
	if !amountRE.MatchString(amount) || !strings.ContainsAny(amount, "123456789") {
		fields = append(fields, domain.FieldError{Field: "amount", Message: "must be a positive decimal with at most two fraction digits"})
	}
	if !currencyRE.MatchString(currency) {
		fields = append(fields, domain.FieldError{Field: "currency", Message: "must be a 3-letter uppercase code"})
	}
	if provider != supportedProvider {
		fields = append(fields, domain.FieldError{Field: "provider", Message: "must be SWIFT"})
	}
	if !accountRE.MatchString(payeeAccount) {
		fields = append(fields, domain.FieldError{Field: "payee_account", Message: "must be 10-16 digits"})
	}
	if !swiftRE.MatchString(payeeSwift) {
		fields = append(fields, domain.FieldError{Field: "payee_swift", Message: "must be 8 or 11 alphanumeric characters"})
	}
	return fields
}
