package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips country code and formatting",
			input:    "+1 123-456-7890",
			expected: "1234567890",
		},
		{
			name:     "strips parentheses",
			input:    "(123) 456-7890",
			expected: "1234567890",
		},
		{
			name:     "bare number unchanged",
			input:    "1234567890",
			expected: "1234567890",
		},
		{
			name:     "short number kept as is",
			input:    "911",
			expected: "911",
		},
		{
			name:     "contact name left alone",
			input:    "Obi-wan Kenobi",
			expected: "Obi-wan Kenobi",
		},
		{
			name:     "email address left alone",
			input:    "someone@example.com",
			expected: "someone@example.com",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	assert.Equal(t,
		[]string{"1234567890", "Obi-wan Kenobi"},
		NormalizeAll([]string{"+1 (123) 456-7890", "Obi-wan Kenobi"}))

	assert.Nil(t, NormalizeAll(nil))
}
