package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateReferralCode builds a human-shareable code from the first letters of
// the user's name plus a random 5-digit suffix, e.g. "SAR48213". The caller is
// expected to retry on a unique-index collision.
func GenerateReferralCode(name string) (string, error) {
	namePart := namePrefix(name)

	// 10000..99999
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	return fmt.Sprintf("%s%05d", namePart, n.Int64()+10000), nil
}

// namePrefix extracts up to three uppercase ASCII letters from the name,
// falling back to "SOD" for names with no usable characters.
func namePrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "SOD"
	}
	return b.String()
}
