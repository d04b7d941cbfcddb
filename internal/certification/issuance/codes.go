package issuance

import (
	"crypto/rand"
	"fmt"

	"accredit/internal/certification/models"
)

// CodeGenerator produces a formatted verification code.
type CodeGenerator func() (string, error)

// RandomVerificationCode draws VerificationCodeLength symbols from the
// 32-symbol alphabet. Masking a random byte to 5 bits is unbiased because
// the alphabet size is a power of two.
func RandomVerificationCode() (string, error) {
	buf := make([]byte, models.VerificationCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = models.VerificationCodeAlphabet[b&31]
	}
	return models.FormatVerificationCode(string(buf)), nil
}
