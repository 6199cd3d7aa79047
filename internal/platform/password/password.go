package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "electoral/pkg/domain-errors"
)

// Bcrypt hashes and verifies passwords.
type Bcrypt struct {
	cost  int
	dummy []byte
}

// NewBcrypt returns a hasher using cost, or bcrypt.DefaultCost when cost is zero.
func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	// A fixed digest lets logins for unknown identifiers spend the same time
	// as a real comparison.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("electoral-dummy-password"), cost)
	return &Bcrypt{cost: cost, dummy: dummy}
}

// Hash creates a bcrypt digest of plaintext.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches digest. Every failure, including a
// malformed digest, is reported as a mismatch.
func (b *Bcrypt) Verify(plaintext, digest string) bool {
	if digest == "" {
		_ = bcrypt.CompareHashAndPassword(b.dummy, []byte(plaintext))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
