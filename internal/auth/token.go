package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/oaitse/payportal/internal/domain"
)

// Cookie names carrying the signed session tokens.
const (
	CustomerCookie = "cust_token"
	EmployeeCookie = "emp_jwt"
)

const customerTokenType = "customer"

// ErrInvalidToken is returned for any token that fails signature,
// expiry, or claim checks. Callers must not leak which check failed.
var ErrInvalidToken = errors.New("invalid token")

// CustomerClaims is the customer session payload: the user id and a
// fixed type tag distinguishing customer tokens from employee tokens.
type CustomerClaims struct {
	UID  int64  `json:"uid"`
	Type string `json:"t"`
	jwt.RegisteredClaims
}

// EmployeeClaims is the employee session payload.
type EmployeeClaims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens mints and verifies the two session token audiences.
type Tokens struct {
	secret      []byte
	customerTTL time.Duration
	employeeTTL time.Duration
	now         func() time.Time
}

// NewTokens constructs a Tokens issuer with the given HMAC secret and
// per-audience lifetimes.
func NewTokens(secret string, customerTTL, employeeTTL time.Duration) *Tokens {
	return &Tokens{
		secret:      []byte(secret),
		customerTTL: customerTTL,
		employeeTTL: employeeTTL,
		now:         time.Now,
	}
}

// CustomerTTL returns the customer token lifetime, used for cookie expiry.
func (t *Tokens) CustomerTTL() time.Duration { return t.customerTTL }

// EmployeeTTL returns the employee token lifetime, used for cookie expiry.
func (t *Tokens) EmployeeTTL() time.Duration { return t.employeeTTL }

// MintCustomer signs a customer session token for the given user id.
func (t *Tokens) MintCustomer(uid int64) (string, error) {
	now := t.now()
	claims := CustomerClaims{
		UID:  uid,
		Type: customerTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.customerTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// VerifyCustomer validates a customer session token and returns its claims.
func (t *Tokens) VerifyCustomer(token string) (CustomerClaims, error) {
	var claims CustomerClaims
	if err := t.parse(token, &claims); err != nil {
		return CustomerClaims{}, err
	}
	if claims.Type != customerTokenType {
		return CustomerClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// MintEmployee signs an employee session token.
func (t *Tokens) MintEmployee(emp domain.Employee) (string, error) {
	now := t.now()
	claims := EmployeeClaims{
		ID:       emp.ID,
		Username: emp.Username,
		Role:     emp.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.employeeTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// VerifyEmployee validates an employee session token and returns its claims.
func (t *Tokens) VerifyEmployee(token string) (EmployeeClaims, error) {
	var claims EmployeeClaims
	if err := t.parse(token, &claims); err != nil {
		return EmployeeClaims{}, err
	}
	if claims.Role != domain.RoleEmployee && claims.Role != domain.RoleAdmin {
		return EmployeeClaims{}, ErrInvalidToken
	}
	return claims, nil
}

func (t *Tokens) parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
