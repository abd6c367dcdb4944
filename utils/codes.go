package utils

import (
	"fmt"
	"math/rand"
)

// maxCodeAttempts bounds the retry loop when colliding with existing codes.
const maxCodeAttempts = 50

// GenerateCode produces a short human-facing code like RQ48213: prefix plus
// a random number of the given digit width. exists is queried so the caller
// can enforce collection-level uniqueness; generation retries on collision.
func GenerateCode(prefix string, digits int, exists func(code string) (bool, error)) (string, error) {
	low := 1
	for i := 1; i < digits; i++ {
		low *= 10
	}
	span := low*10 - low

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := fmt.Sprintf("%s%d", prefix, low+rand.Intn(span))
		taken, err := exists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique %s code", prefix)
}
