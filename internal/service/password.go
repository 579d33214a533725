package service

import "golang.org/x/crypto/bcrypt"

// MinHashCost is the floor for the bcrypt work factor. The cost is a
// security/performance trade-off; each increment doubles the hashing time.
const MinHashCost = 10

type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < MinHashCost {
		cost = MinHashCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}

	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Verify never returns an error: malformed hashes and mismatches are both
// "does not match". The comparison is constant-time inside bcrypt.
func (h *PasswordHasher) Verify(plaintext string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
