// internal/story/chapterid_test.go
package story

import (
	"regexp"
	"testing"
)

func TestExtractChapterID(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"tagged heading", "# <!-- id: abc123 --> Chapter 1", "abc123"},
		{"loose spacing", "# <!--  id:  a1-b2  --> Chapter 1", "a1-b2"},
		{"no id", "# Chapter 1", ""},
		{"empty line", "", ""},
		{"invalid charset", "# <!-- id: not valid! --> Chapter 1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractChapterID(tt.line); got != tt.want {
				t.Errorf("ExtractChapterID(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestStripChapterID(t *testing.T) {
	got := StripChapterID("<!-- id: abc123 --> Chapter 1")
	if got != "Chapter 1" {
		t.Errorf("StripChapterID = %q, want %q", got, "Chapter 1")
	}

	if got := StripChapterID("Chapter 1"); got != "Chapter 1" {
		t.Errorf("untouched title mangled: %q", got)
	}
}

func TestNewChapterIDCharset(t *testing.T) {
	valid := regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewChapterID()
		if !valid.MatchString(id) {
			t.Fatalf("id %q outside allowed charset", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestEnsureAllChaptersHaveIDsIdempotent(t *testing.T) {
	doc := "# Chapter 1\n\ntext\n\n# <!-- id: keep-me --> Chapter 2\n\nmore\n\n# Chapter 3\n"

	once := EnsureAllChaptersHaveIDs(doc)
	twice := EnsureAllChaptersHaveIDs(once)
	if once != twice {
		t.Error("second pass modified an already-tagged document")
	}

	chapters := ChaptersFromStoryContent(once)
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}
	ids := make(map[string]bool)
	for _, ch := range chapters {
		if ch.ID == "" {
			t.Errorf("chapter %q still untagged", ch.Title)
		}
		if ids[ch.ID] {
			t.Errorf("duplicate chapter id %q", ch.ID)
		}
		ids[ch.ID] = true
	}
	if chapters[1].ID != "keep-me" {
		t.Errorf("existing id replaced: %q", chapters[1].ID)
	}

	// Bodies survive tagging untouched.
	for _, title := range []string{"Chapter 1", "Chapter 2", "Chapter 3"} {
		want, _ := ExtractChapterContent(doc, title, "")
		got, _ := ExtractChapterContent(once, title, "")
		if got != want {
			t.Errorf("%s body changed by tagging: %q != %q", title, got, want)
		}
	}
}

func TestEnsureAllChaptersHaveIDsEmptyDocument(t *testing.T) {
	if got := EnsureAllChaptersHaveIDs(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
