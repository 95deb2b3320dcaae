package services

import "golang.org/x/crypto/bcrypt"

const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
)

// PasswordHasher wraps bcrypt with a configurable cost. The zero cost falls
// back to bcrypt.DefaultCost (10), which keeps offline brute force expensive.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
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

// Verify reports whether plaintext matches hash. bcrypt's comparison is
// constant-time on the digest, so a mismatch leaks no timing information.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// ValidatePasswordLength enforces the 8-100 character policy shared by
// registration, password change and reset.
func ValidatePasswordLength(plaintext string) *ValidationError {
	if len(plaintext) < MinPasswordLength || len(plaintext) > MaxPasswordLength {
		return &ValidationError{Errors: []string{
			"Your password should be between 8 and 100 characters.",
		}}
	}
	return nil
}
