package auth

import "golang.org/x/crypto/bcrypt"

// Hasher wraps bcrypt with a configured work factor.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher. Costs below bcrypt's minimum fall back to
// the library default; the policy floor of 12 is enforced by config.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash derives a salted bcrypt hash of the password.
func (h Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether the password matches the stored hash.
func (h Hasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
