package newsletter

import "github.com/google/uuid"

// TokenGenerator produces an unguessable per-subscriber secret.
type TokenGenerator func() string

// NewToken returns a random (v4) UUID in its canonical hyphenated form.
func NewToken() string {
	return uuid.New().String()
}
