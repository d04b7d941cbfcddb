package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil slice", nil, nil},
		{"empty slice", []string{}, []string{}},
		{"trims and drops blanks", []string{"  Contract ", "", "   "}, []string{"Contract"}},
		{"keeps first occurrence order", []string{"Tort", "Contract", " Tort"}, []string{"Tort", "Contract"}},
		{"case sensitive", []string{"tort", "Tort"}, []string{"tort", "Tort"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDistinctSorted(t *testing.T) {
	assert.Equal(t, []string{}, DistinctSorted(nil))
	assert.Equal(t, []string{"Contract", "Crime", "Tort"},
		DistinctSorted([]string{"Tort", "Contract", "Tort ", "", "Crime", "Contract"}))
}
