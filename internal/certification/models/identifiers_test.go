package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationCodeAlphabet(t *testing.T) {
	assert.Len(t, VerificationCodeAlphabet, 32)
	for _, ambiguous := range "0O1I" {
		assert.NotContains(t, VerificationCodeAlphabet, string(ambiguous))
	}
}

func TestFormatVerificationCode(t *testing.T) {
	assert.Equal(t, "ABCD-EFGH-JKLM", FormatVerificationCode("ABCDEFGHJKLM"))
	assert.True(t, IsVerificationCode("ABCD-EFGH-JKLM"))
}

func TestIsVerificationCode(t *testing.T) {
	cases := map[string]bool{
		"ABCD-EFGH-JKLM": true,
		"2345-6789-ZZZZ": true,
		"ABCDEFGHJKLM":   false,
		"ABCD-EFGH-JKL":  false,
		"ABCD-EFGH-JKL0": false,
		"abcd-efgh-jklm": false,
		"ABCD_EFGH_JKLM": false,
		"":               false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsVerificationCode(in), in)
	}
}

func TestNormalizeVerificationCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ABCD-EFGH-JKLM", "ABCD-EFGH-JKLM", true},
		{"abcdefghjklm", "ABCD-EFGH-JKLM", true},
		{" abcd efgh-jklm ", "ABCD-EFGH-JKLM", true},
		{"ABCD-EFGH-JKL", "", false},
		{"ABCD-EFGH-JKLO", "", false},
		{"ABCD-EFGH-JKLMN", "", false},
		{"ÄBCD-EFGH-JKLM", "", false},
		{"'; DROP TABLE credentials;--", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeVerificationCode(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFormatCredentialNumber(t *testing.T) {
	assert.Equal(t, "ACC-2026-00001", FormatCredentialNumber("ACC", 2026, 1))
	assert.Equal(t, "ACC-2026-123456", FormatCredentialNumber("ACC", 2026, 123456))
}

func TestScoredSessionIsScored(t *testing.T) {
	score := 70
	assert.True(t, ScoredSession{Status: SessionStatusCompleted, OverallScore: &score}.IsScored())
	assert.False(t, ScoredSession{Status: SessionStatusCompleted}.IsScored())
	assert.False(t, ScoredSession{Status: SessionStatusInProgress, OverallScore: &score}.IsScored())
}
