// internal/story/locator_test.go
package story

import (
	"strings"
	"testing"
)

func TestFindChapterStartIndex(t *testing.T) {
	lines := strings.Split(
		"# <!-- id: x1 --> Chapter 1: The Beginning\n"+
			"text\n"+
			"# Chapter 10\n"+
			"more\n"+
			"# Epilogue — After\n", "\n")

	tests := []struct {
		name  string
		title string
		want  int
	}{
		{"loose trailing boundary", "Chapter 1", 0},
		{"exact with id comment", "Chapter 1: The Beginning", 0},
		{"digit boundary not loose", "Chapter 10", 2},
		{"separator dash", "Epilogue", 4},
		{"case insensitive", "chapter 10", 2},
		{"missing", "Chapter 7", -1},
		{"empty title", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindChapterStartIndex(lines, tt.title); got != tt.want {
				t.Errorf("FindChapterStartIndex(%q) = %d, want %d", tt.title, got, tt.want)
			}
		})
	}
}

// When one chapter title is a prefix of another, the first match in
// document order wins. The rule is deliberate, not a regex accident.
func TestFindChapterStartIndexPrefixCollision(t *testing.T) {
	lines := []string{"# Chapter 1: The Fall", "a", "# Chapter 1", "b"}
	if got := FindChapterStartIndex(lines, "Chapter 1"); got != 0 {
		t.Errorf("prefix collision: got %d, want first match 0", got)
	}
}

func TestChaptersFromStoryContent(t *testing.T) {
	doc := "preamble before any heading\n" +
		"\n" +
		"# <!-- id: a1 --> One\n" +
		"body\n" +
		"# \n" +
		"untitled body\n" +
		"# Three\n"

	chapters := ChaptersFromStoryContent(doc)
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}

	if chapters[0].Title != "One" || chapters[0].ID != "a1" || chapters[0].Index != 0 {
		t.Errorf("chapter 0 = %+v", chapters[0])
	}
	if chapters[1].Title != "Untitled Chapter 2" {
		t.Errorf("untitled default = %q", chapters[1].Title)
	}
	if chapters[2].Title != "Three" || chapters[2].Index != 2 {
		t.Errorf("chapter 2 = %+v", chapters[2])
	}
}

func TestChaptersFromStoryContentEmpty(t *testing.T) {
	if got := ChaptersFromStoryContent(""); len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}
}

func TestChapterWordCounts(t *testing.T) {
	doc := "dropped preamble words here\n" +
		"\n" +
		"# Chapter 1\n" +
		"one two three\n" +
		"\n" +
		"# <!-- id: b2 --> Chapter 2\n" +
		"\n" +
		"four five\n"

	stats := ChapterWordCounts(doc)
	if len(stats) != 2 {
		t.Fatalf("expected 2 stats, got %d", len(stats))
	}

	if stats[0].Title != "Chapter 1" || stats[0].WordCount != 3 {
		t.Errorf("stats[0] = %+v", stats[0])
	}
	if stats[1].Title != "Chapter 2" || stats[1].WordCount != 2 || stats[1].ID != "b2" {
		t.Errorf("stats[1] = %+v", stats[1])
	}
	if stats[1].Content != "four five" {
		t.Errorf("stats[1].Content = %q", stats[1].Content)
	}
}

func TestChapterWordCountsNoHeadings(t *testing.T) {
	if got := ChapterWordCounts("just loose text\nwith no chapters"); len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}
}
