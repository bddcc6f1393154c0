package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEmbedInputKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantRunes int
	}{
		{"short text unchanged", "Backend Engineer", 16},
		{"ascii over limit", strings.Repeat("a", maxEmbedChars+10), maxEmbedChars},
		{"two byte runes", strings.Repeat("é", maxEmbedChars+1), maxEmbedChars},
		// Byte offset 40000 falls inside a three byte rune here.
		{"mixed widths", "x" + strings.Repeat("日", maxEmbedChars), maxEmbedChars},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := embedInput(tt.text)
			assert.True(t, utf8.ValidString(got))
			assert.Equal(t, tt.wantRunes, utf8.RuneCountInString(got))
			assert.True(t, strings.HasPrefix(tt.text, got))
		})
	}
}
