package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "accredit/pkg/domain-errors"
)

func TestParseRejectsUntrustedInput(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"blank":           "   ",
		"nil uuid":        uuid.Nil.String(),
		"not a uuid":      "advocate-42",
		"sql payload":     "'; DROP TABLE credentials;--",
		"path traversal":  "../../verify/ABCD-EFGH-JKLM",
		"embedded null":   "550e8400\x00-e29b-41d4-a716-446655440000",
		"oversized input": strings.Repeat("f", 200),
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, errUser := ParseUserID(input)
			require.Error(t, errUser)
			assert.True(t, dErrors.HasCode(errUser, dErrors.CodeInvalidInput))
			assert.Contains(t, errUser.Error(), "user_id")

			_, errCred := ParseCredentialID(input)
			require.Error(t, errCred)
			assert.Contains(t, errCred.Error(), "credential_id")
		})
	}
}

func TestParseAcceptsEitherCase(t *testing.T) {
	lower := "550e8400-e29b-41d4-a716-446655440000"

	fromLower, err := ParseUserID(lower)
	require.NoError(t, err)
	fromUpper, err := ParseUserID(strings.ToUpper(lower))
	require.NoError(t, err)

	assert.Equal(t, fromLower, fromUpper)
	assert.Equal(t, lower, fromUpper.String())
}

func TestCredentialIDRoundTrip(t *testing.T) {
	assert.True(t, UserID{}.IsNil())
	assert.True(t, CredentialID{}.IsNil())

	credID := NewCredentialID()
	require.False(t, credID.IsNil())

	parsed, err := ParseCredentialID(credID.String())
	require.NoError(t, err)
	assert.Equal(t, credID, parsed)
}
