// internal/utils/wordcount_test.go
package utils

import (
	"testing"
)

func TestCalculateWordCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t  ", 0},
		{"simple", "one two three", 3},
		{"surrounding whitespace", "  a   b  ", 2},
		{"punctuation attached", "wait -- what?!", 3},
		{"newlines as separators", "first\nsecond\n\nthird", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateWordCount(tt.text); got != tt.want {
				t.Errorf("CalculateWordCount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
