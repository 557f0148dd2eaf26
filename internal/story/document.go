// internal/story/document.go
//
// Read and write operations over the story monolith: a single Markdown
// string holding the entire manuscript, chapters delimited by "# "
// headings. Every function here is pure — document in, new document out —
// so two call sites can never hold overlapping mutable views of the same
// buffer.
package story

import (
	"strconv"
	"strings"

	"github.com/sachasayan/minstrel-sub000/internal/models"
	"github.com/sachasayan/minstrel-sub000/internal/utils"
)

// normalizeNewlines canonicalizes line endings. Documents are normalized
// on load; mutations re-apply it so splice arithmetic is always over "\n".
func normalizeNewlines(doc string) string {
	return strings.ReplaceAll(doc, "\r\n", "\n")
}

// splitLines treats a malformed (empty) document as zero lines rather
// than the single empty line strings.Split would produce.
func splitLines(doc string) []string {
	if doc == "" {
		return nil
	}
	return strings.Split(doc, "\n")
}

// findChapterLineByID locates the heading line carrying the given ID.
// ID lookup never falls back to title matching.
func findChapterLineByID(lines []string, id string) int {
	if id == "" {
		return -1
	}
	for i, line := range lines {
		if IsChapterHeading(line) && ExtractChapterID(line) == id {
			return i
		}
	}
	return -1
}

// ExtractChapterContent returns the trimmed text strictly between the
// matched heading and the next heading (or end of document). When id is
// supplied the chapter is located by ID only; a stale ID misses even if a
// title match would have succeeded, so callers never act on the wrong
// chapter when titles collide. A miss returns ("", false).
func ExtractChapterContent(doc, title, id string) (string, bool) {
	lines := splitLines(normalizeNewlines(doc))

	var start int
	if id != "" {
		start = findChapterLineByID(lines, id)
	} else {
		start = FindChapterStartIndex(lines, title)
	}
	if start < 0 {
		return "", false
	}

	end := nextHeadingIndex(lines, start+1)
	return strings.TrimSpace(strings.Join(lines[start+1:end], "\n")), true
}

// FindChapterByID returns the cleaned title, content and snapshot index of
// the chapter carrying the given ID.
func FindChapterByID(doc, id string) (*models.Chapter, bool) {
	lines := splitLines(normalizeNewlines(doc))
	start := findChapterLineByID(lines, id)
	if start < 0 {
		return nil, false
	}

	index := 0
	for i := 0; i < start; i++ {
		if IsChapterHeading(lines[i]) {
			index++
		}
	}

	end := nextHeadingIndex(lines, start+1)
	return &models.Chapter{
		Title:   headingTitle(lines[start]),
		ID:      id,
		Index:   index,
		Content: strings.TrimSpace(strings.Join(lines[start+1:end], "\n")),
	}, true
}

// ReplaceChapterContent splices newContent over exactly one chapter's span,
// leaving every other chapter byte-identical. Target resolution mirrors
// ExtractChapterContent: a supplied ID is authoritative, and an ID that
// matches no heading logs an error and returns the document unchanged
// rather than guessing. Without an ID, a missing chapter falls back to
// appending newContent at the end of the document.
func ReplaceChapterContent(doc, title, newContent, id string) string {
	original := doc
	normalized := normalizeNewlines(doc)
	lines := splitLines(normalized)

	start := -1
	if id != "" {
		start = findChapterLineByID(lines, id)
		if start < 0 {
			utils.GetLogger().Error("chapter id not found; refusing to modify document", map[string]interface{}{
				"chapter_id": id,
				"title":      title,
			})
			return original
		}
	} else if title != "" {
		start = FindChapterStartIndex(lines, title)
	}

	// Keep the chapter's existing name when the caller supplied none.
	effectiveTitle := strings.TrimSpace(title)
	if effectiveTitle == "" && start >= 0 {
		effectiveTitle = headingTitle(lines[start])
	}

	content := prepareChapterContent(newContent, effectiveTitle, id)

	if start < 0 {
		// Create-if-missing path; the strict-ID path never reaches here.
		if strings.TrimSpace(normalized) == "" {
			return content
		}
		return strings.TrimRight(normalized, "\n") + "\n\n" + content
	}

	end := nextHeadingIndex(lines, start+1)
	before := strings.TrimRight(strings.Join(lines[:start], "\n"), "\n")
	after := strings.TrimLeft(strings.Join(lines[end:], "\n"), "\n")

	// Exactly one blank separator on each seam that has content.
	parts := make([]string, 0, 3)
	for _, part := range []string{before, content, after} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n\n")
}

// prepareChapterContent normalizes an incoming chapter body: synthesizes a
// heading when the content lacks one, and stamps the target ID into the
// heading so a machine-authored rewrite can never drop a chapter's
// identity.
func prepareChapterContent(newContent, effectiveTitle, id string) string {
	content := strings.Trim(normalizeNewlines(newContent), "\n")

	firstLine := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}

	if !IsChapterHeading(firstLine) {
		t := effectiveTitle
		if t == "" {
			t = "Untitled Chapter"
		}
		heading := "# " + t
		if content == "" {
			content = heading
		} else {
			content = heading + "\n\n" + content
		}
		firstLine = heading
	}

	if id != "" && ExtractChapterID(firstLine) != id {
		tagged := injectChapterID(firstLine, id)
		content = tagged + content[len(firstLine):]
	}

	return strings.TrimSpace(content)
}

// AppendChapter appends a new numbered chapter heading at the end of the
// document and returns the new document plus the appended chapter's
// 0-based index. Numbering is one past the count of existing headings;
// leading newlines adjust to whatever the document already ends with so
// the seam is exactly one blank line.
func AppendChapter(doc string) (string, int) {
	normalized := normalizeNewlines(doc)

	count := 0
	for _, line := range splitLines(normalized) {
		if IsChapterHeading(line) {
			count++
		}
	}

	heading := "# Chapter " + strconv.Itoa(count+1)
	if strings.TrimSpace(normalized) == "" {
		return heading + "\n\n", count
	}

	var sep string
	switch {
	case strings.HasSuffix(normalized, "\n\n"):
		sep = ""
	case strings.HasSuffix(normalized, "\n"):
		sep = "\n"
	default:
		sep = "\n\n"
	}
	return normalized + sep + heading + "\n\n", count
}
