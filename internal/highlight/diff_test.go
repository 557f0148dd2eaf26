// internal/highlight/diff_test.go
package highlight

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sachasayan/minstrel-sub000/internal/models"
)

// substr extracts a rune range from text.
func substr(text string, r models.Range) string {
	runes := []rune(text)
	return string(runes[r.Start:r.End])
}

func assertWellFormed(t *testing.T, text string, ranges []models.Range) {
	t.Helper()
	prev := -1
	for _, r := range ranges {
		if r.Start >= r.End {
			t.Errorf("zero-length or inverted range %+v", r)
		}
		if r.Start < prev {
			t.Errorf("ranges out of order or overlapping at %+v", r)
		}
		if r.End > utf8.RuneCountInString(text) {
			t.Errorf("range %+v exceeds text length", r)
		}
		prev = r.End
	}
}

func TestAddedRangesInsertedSentence(t *testing.T) {
	oldText := "The quick brown fox. It jumped over the lazy dog."
	newText := "The quick brown fox. It was very agile. It jumped over the lazy dog."

	ranges := AddedRanges(oldText, newText)
	assertWellFormed(t, newText, ranges)
	if len(ranges) != 1 {
		t.Fatalf("expected exactly one added range, got %+v", ranges)
	}

	got := strings.TrimSpace(substr(newText, ranges[0]))
	if got != "It was very agile." {
		t.Errorf("added range trims to %q, want %q", got, "It was very agile.")
	}
}

func TestAddedRangesReorderRegistersAsAddition(t *testing.T) {
	ranges := AddedRanges("Sentence A. Sentence B.", "Sentence B. Sentence A.")
	assertWellFormed(t, "Sentence B. Sentence A.", ranges)
	if len(ranges) == 0 {
		t.Error("reordering must register as an addition, not a no-op")
	}
}

func TestAddedRangesIdenticalInputs(t *testing.T) {
	if ranges := AddedRanges("same text", "same text"); len(ranges) != 0 {
		t.Errorf("expected no ranges, got %+v", ranges)
	}
}

func TestAddedRangesEmptyOldCoversAll(t *testing.T) {
	newText := "An entirely new chapter body."
	ranges := AddedRanges("", newText)
	if len(ranges) != 1 {
		t.Fatalf("expected one covering range, got %+v", ranges)
	}
	if ranges[0].Start != 0 || ranges[0].End != utf8.RuneCountInString(newText) {
		t.Errorf("range %+v does not cover all of newText", ranges[0])
	}
}

func TestAddedRangesCaseInsensitive(t *testing.T) {
	if ranges := AddedRanges("hello world", "HELLO WORLD"); len(ranges) != 0 {
		t.Errorf("case-only change flagged as addition: %+v", ranges)
	}
}

func TestAddedRangesRemovalOnly(t *testing.T) {
	ranges := AddedRanges("keep this and drop that", "keep this")
	assertWellFormed(t, "keep this", ranges)
	if len(ranges) != 0 {
		t.Errorf("pure removal produced ranges: %+v", ranges)
	}
}

func TestAddedRangesMultipleInsertions(t *testing.T) {
	oldText := "a b c d"
	newText := "a X b c Y d"

	ranges := AddedRanges(oldText, newText)
	assertWellFormed(t, newText, ranges)
	if len(ranges) != 2 {
		t.Fatalf("expected two ranges, got %+v", ranges)
	}
	if got := strings.TrimSpace(substr(newText, ranges[0])); got != "X" {
		t.Errorf("first range = %q, want X", got)
	}
	if got := strings.TrimSpace(substr(newText, ranges[1])); got != "Y" {
		t.Errorf("second range = %q, want Y", got)
	}
}

func TestRangesForEditFormattingOnly(t *testing.T) {
	edit := models.EditRecord{
		FileTitle:    "Story",
		OldContent:   "Sentence with **bold**.",
		NewContent:   "Sentence with bold.",
		ChapterIndex: -1,
	}
	if ranges := RangesForEdit(edit); len(ranges) != 0 {
		t.Errorf("formatting-only edit flagged as addition: %+v", ranges)
	}
}

func TestRangesForEditAgentRewrite(t *testing.T) {
	edit := models.EditRecord{
		FileTitle:    "Story",
		OldContent:   "# Chapter 2\n\nThe storm arrived at dusk.",
		NewContent:   "# Chapter 2\n\nThe storm arrived at dusk. Nobody was ready for it.",
		ChapterIndex: 1,
	}
	ranges := RangesForEdit(edit)
	stripped := StripMarkdown(edit.NewContent)
	assertWellFormed(t, stripped, ranges)
	if len(ranges) != 1 {
		t.Fatalf("expected one range, got %+v", ranges)
	}
	if got := strings.TrimSpace(substr(stripped, ranges[0])); got != "Nobody was ready for it." {
		t.Errorf("added range trims to %q", got)
	}
}
