// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	activationCodeLength = 6
	activationCodeTTL    = 15 * time.Minute
)

const codeDigits = "0123456789"

// generateActivationCode builds a numeric code from a cryptographically
// secure random source.
func generateActivationCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeDigits))))
		if err != nil {
			return "", fmt.Errorf("failed to generate activation code: %w", err)
		}
		code[i] = codeDigits[n.Int64()]
	}
	return string(code), nil
}
