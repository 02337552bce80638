// Package passcode generates the one-time numeric codes emailed during the
// second login step.
package passcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// MaxDigits bounds the generated code length; verification rejects longer
// submissions outright.
const MaxDigits = 5

// Generate returns a random numeric code of up to digits digits, without
// leading-zero padding (a draw of 7 is the code "7"). Uniqueness is not
// required: the store orders rows by identity and only ever trusts the most
// recent unused one.
func Generate(digits int) (string, error) {
	if digits <= 0 || digits > MaxDigits {
		digits = MaxDigits
	}

	limit := big.NewInt(1)
	for i := 0; i < digits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate passcode: %w", err)
	}

	return n.String(), nil
}
