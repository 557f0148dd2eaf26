// internal/utils/wordcount.go
package utils

import (
	"strings"
)

// CalculateWordCount counts maximal runs of non-whitespace characters.
// Empty or whitespace-only input yields 0. No locale-aware tokenization;
// punctuation stays attached to the word it touches.
func CalculateWordCount(text string) int {
	return len(strings.Fields(text))
}
