// internal/highlight/diff.go
//
// Added-range computation for the "highlight what the agent changed"
// feature. Word tokens (a run of non-space characters plus its adjacent
// whitespace) are interned to runes and fed through a Myers diff; the
// insert runs are then walked back into rune offsets over the new text.
package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/sachasayan/minstrel-sub000/internal/models"
)

// tokenize splits text into word tokens whose concatenation reproduces the
// input exactly: each token is a non-space run plus its trailing
// whitespace, with any leading whitespace attached to the first token.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	var tokens []string

	start := 0
	i := 0
	for i < n && unicode.IsSpace(runes[i]) {
		i++
	}
	for i < n {
		for i < n && !unicode.IsSpace(runes[i]) {
			i++
		}
		for i < n && unicode.IsSpace(runes[i]) {
			i++
		}
		tokens = append(tokens, string(runes[start:i]))
		start = i
	}
	if len(tokens) == 0 {
		// whitespace-only input is a single token
		return []string{text}
	}
	return tokens
}

// tokenKey is the comparison identity of a token: surrounding whitespace
// and letter case are neutralized so they never register as additions.
func tokenKey(tok string) string {
	return strings.ToLower(strings.TrimSpace(tok))
}

// internTokens maps token keys from both sides into a shared rune
// alphabet for the diff.
func internTokens(oldTokens, newTokens []string) ([]rune, []rune) {
	index := make(map[string]rune)
	next := rune(1)

	conv := func(tokens []string) []rune {
		out := make([]rune, len(tokens))
		for i, tok := range tokens {
			key := tokenKey(tok)
			r, ok := index[key]
			if !ok {
				r = next
				next++
				if next == 0xD800 {
					// skip the surrogate block; those runes do not
					// survive a string round trip
					next = 0xE000
				}
				index[key] = r
			}
			out[i] = r
		}
		return out
	}
	return conv(oldTokens), conv(newTokens)
}

// AddedRanges computes the character ranges of newText that were added
// relative to oldText. Offsets are rune-based, sorted, non-overlapping
// and never zero-length. Identical inputs yield no ranges; an empty
// oldText yields one range covering all of newText. Removals never
// advance the newText offset, so they produce no ranges.
func AddedRanges(oldText, newText string) []models.Range {
	ranges := []models.Range{}
	if oldText == newText || newText == "" {
		return ranges
	}

	oldTokens := tokenize(oldText)
	newTokens := tokenize(newText)
	oldRunes, newRunes := internTokens(oldTokens, newTokens)

	differ := diffmatchpatch.New()
	diffs := differ.DiffMainRunes(oldRunes, newRunes, false)

	// Mark which new tokens the diff reports as inserted.
	added := make([]bool, len(newTokens))
	ni := 0
	for _, d := range diffs {
		count := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			ni += count
		case diffmatchpatch.DiffInsert:
			for j := 0; j < count; j++ {
				added[ni] = true
				ni++
			}
		case diffmatchpatch.DiffDelete:
			// consumes old tokens only
		}
	}

	slideInsertRuns(added, newTokens)

	// Fold marked tokens into contiguous rune ranges.
	offset := 0
	for i, tok := range newTokens {
		length := utf8.RuneCountInString(tok)
		if added[i] {
			if len(ranges) > 0 && ranges[len(ranges)-1].End == offset {
				ranges[len(ranges)-1].End = offset + length
			} else {
				ranges = append(ranges, models.Range{Start: offset, End: offset + length})
			}
		}
		offset += length
	}
	return ranges
}

// slideInsertRuns rotates each insert run leftward while the token before
// the run equals the run's last token, so an inserted sentence anchors at
// its own start ("It was very agile." rather than "was very agile. It").
// Both phrasings are valid Myers outputs; this picks the human one.
func slideInsertRuns(added []bool, tokens []string) {
	for i := 0; i < len(added); i++ {
		if !added[i] {
			continue
		}
		a := i
		b := i
		for b+1 < len(added) && added[b+1] {
			b++
		}
		for a > 0 && !added[a-1] && tokenKey(tokens[b]) == tokenKey(tokens[a-1]) {
			added[a-1] = true
			added[b] = false
			a--
			b--
		}
		i = b
	}
}

// RangesForEdit runs both sides of an edit record through StripMarkdown
// and diffs the results, yielding ranges over the post-edit plaintext.
func RangesForEdit(edit models.EditRecord) []models.Range {
	return AddedRanges(StripMarkdown(edit.OldContent), StripMarkdown(edit.NewContent))
}
