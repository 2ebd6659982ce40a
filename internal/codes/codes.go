// Package codes generates the short numeric room codes players type to join
// a session.
package codes

import (
	"errors"
	"math/rand"
	"strconv"
)

// MaxAttempts bounds collision retries; the 4-digit space only holds 9000
// codes, so allocation must fail loudly rather than spin forever once the
// space saturates.
const MaxAttempts = 10000

var ErrSpaceExhausted = errors.New("room code space exhausted")

// Generate returns a 4-digit decimal code in 1000-9999 (never a leading zero).
func Generate(r *rand.Rand) string {
	return strconv.Itoa(1000 + r.Intn(9000))
}

// Allocate retries Generate until taken reports the code free.
func Allocate(r *rand.Rand, taken func(code string) bool) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		code := Generate(r)
		if !taken(code) {
			return code, nil
		}
	}
	return "", ErrSpaceExhausted
}
