package models

import (
	"fmt"
	"strings"
)

// VerificationCodeAlphabet is 32 symbols with 0, O, 1 and I removed.
const VerificationCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	VerificationCodeLength = 12
	verificationGroupSize  = 4
)

// FormatVerificationCode groups raw symbols as XXXX-XXXX-XXXX.
func FormatVerificationCode(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if i > 0 && i%verificationGroupSize == 0 {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsVerificationCode reports whether s is a canonical formatted code.
func IsVerificationCode(s string) bool {
	if len(s) != VerificationCodeLength+VerificationCodeLength/verificationGroupSize-1 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if (i+1)%(verificationGroupSize+1) == 0 {
			if s[i] != '-' {
				return false
			}
			continue
		}
		if strings.IndexByte(VerificationCodeAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

// NormalizeVerificationCode turns user input ("abcd efgh-jklm", lower case,
// missing hyphens) into canonical form. ok is false when the input cannot be
// a code at all.
func NormalizeVerificationCode(input string) (code string, ok bool) {
	var raw strings.Builder
	for _, r := range strings.ToUpper(input) {
		switch {
		case r == '-' || r == ' ':
			continue
		case r > 127 || strings.IndexByte(VerificationCodeAlphabet, byte(r)) < 0:
			return "", false
		default:
			raw.WriteRune(r)
		}
	}
	if raw.Len() != VerificationCodeLength {
		return "", false
	}
	return FormatVerificationCode(raw.String()), true
}

// FormatCredentialNumber renders PREFIX-YEAR-NNNNN.
func FormatCredentialNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}
