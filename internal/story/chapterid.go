// internal/story/chapterid.go
package story

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// The one wire format that must stay stable across versions: a chapter
// heading line is `# [<!-- id: TOKEN --> ]TITLE`, TOKEN in [a-zA-Z0-9-]+.
var (
	chapterIDRe     = regexp.MustCompile(`<!--\s*id:\s*([a-zA-Z0-9-]+)\s*-->`)
	headingPrefixRe = regexp.MustCompile(`^(#\s+)(.*)$`)
)

// ExtractChapterID pulls the ID token out of a heading line.
// Returns "" when the line carries no ID comment.
func ExtractChapterID(line string) string {
	m := chapterIDRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

// StripChapterID removes the ID comment from a title or heading fragment
// and trims the result.
func StripChapterID(title string) string {
	return strings.TrimSpace(chapterIDRe.ReplaceAllString(title, ""))
}

// NewChapterID generates a short random token for a chapter.
// Hex from a v4 UUID keeps the token inside the [a-zA-Z0-9-] charset.
func NewChapterID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// injectChapterID places the ID comment immediately after the heading
// marker. Any existing ID comment is replaced, never duplicated.
func injectChapterID(line, id string) string {
	m := headingPrefixRe.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	rest := StripChapterID(m[2])
	return m[1] + "<!-- id: " + id + " --> " + rest
}

// EnsureAllChaptersHaveIDs tags every heading line that lacks an ID comment
// with a freshly generated token. Running it on an already-tagged document
// is a byte-for-byte no-op; this is the one-way migration for documents
// written before IDs existed.
func EnsureAllChaptersHaveIDs(doc string) string {
	if doc == "" {
		return doc
	}

	lines := strings.Split(doc, "\n")
	changed := false
	for i, line := range lines {
		if !IsChapterHeading(line) {
			continue
		}
		if ExtractChapterID(line) != "" {
			continue
		}
		lines[i] = injectChapterID(line, NewChapterID())
		changed = true
	}

	if !changed {
		return doc
	}
	return strings.Join(lines, "\n")
}
