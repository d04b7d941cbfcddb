package issuance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredit/internal/certification/models"
)

func TestRandomVerificationCode(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := RandomVerificationCode()
		require.NoError(t, err)
		require.True(t, models.IsVerificationCode(code), code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}
