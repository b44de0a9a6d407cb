package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "strips stop words",
			input:    "I need a boat cover please",
			expected: []string{"boat", "cover"},
		},
		{
			name:     "lowercases and strips punctuation",
			input:    "Show me LED lights!",
			expected: []string{"led", "lights"},
		},
		{
			name:     "keeps currency symbols",
			input:    "anchor under €50",
			expected: []string{"anchor", "under", "€50"},
		},
		{
			name:     "drops single characters",
			input:    "a 3 m rope",
			expected: []string{"rope"},
		},
		{
			name:     "all stop words",
			input:    "can you find me something",
			expected: []string{},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractKeywords(tt.input))
		})
	}
}
