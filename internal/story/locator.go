// internal/story/locator.go
package story

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sachasayan/minstrel-sub000/internal/models"
	"github.com/sachasayan/minstrel-sub000/internal/utils"
)

// A chapter boundary is a line beginning with "# ". Deeper headings
// (##, ###) belong to the chapter body.
var headingRe = regexp.MustCompile(`^#\s+`)

// IsChapterHeading reports whether a line starts a chapter region.
func IsChapterHeading(line string) bool {
	return headingRe.MatchString(line)
}

// headingTitle returns the human-visible title of a heading line:
// the heading marker and any ID comment stripped, then trimmed.
func headingTitle(line string) string {
	return StripChapterID(headingRe.ReplaceAllString(line, ""))
}

// FindChapterStartIndex locates the first heading line matching the given
// title, case-insensitively. The title may be followed by a separator
// (": - . —"), whitespace, or end of line, so a caller that only knows
// "Chapter 1" still finds "Chapter 1: The Beginning". When one chapter's
// title is a prefix of another's, the first match in line order wins.
func FindChapterStartIndex(lines []string, title string) int {
	if title == "" {
		return -1
	}

	pattern := `(?i)^#\s+(?:<!--\s*id:\s*[a-zA-Z0-9-]+\s*-->\s*)?` +
		regexp.QuoteMeta(strings.TrimSpace(title)) +
		`(?:[:\-.—\s]|$)`
	re, err := regexp.Compile(pattern)
	if err != nil {
		utils.GetLogger().Error("failed to compile chapter title pattern", map[string]interface{}{
			"title": title,
			"err":   err.Error(),
		})
		return -1
	}

	for i, line := range lines {
		if re.MatchString(line) {
			return i
		}
	}
	return -1
}

// nextHeadingIndex returns the index of the next chapter heading at or
// after from, or len(lines) when the last chapter runs to end of document.
func nextHeadingIndex(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if IsChapterHeading(lines[i]) {
			return i
		}
	}
	return len(lines)
}

// ChaptersFromStoryContent derives the chapter list in document order.
// Index is the 0-based encounter position; it is a snapshot, not an
// identity. An empty document yields an empty list.
func ChaptersFromStoryContent(doc string) []models.Chapter {
	chapters := []models.Chapter{}
	if doc == "" {
		return chapters
	}

	for _, line := range strings.Split(normalizeNewlines(doc), "\n") {
		if !IsChapterHeading(line) {
			continue
		}
		title := headingTitle(line)
		if title == "" {
			title = fmt.Sprintf("Untitled Chapter %d", len(chapters)+1)
		}
		chapters = append(chapters, models.Chapter{
			Title: title,
			ID:    ExtractChapterID(line),
			Index: len(chapters),
		})
	}
	return chapters
}

// ChapterWordCounts scans once, accumulating each chapter's body lines
// until the next heading. Lines before the first heading belong to no
// chapter and are dropped. This is the feed for per-chapter word-count
// charts.
func ChapterWordCounts(doc string) []models.ChapterStat {
	stats := []models.ChapterStat{}
	if doc == "" {
		return stats
	}

	lines := strings.Split(normalizeNewlines(doc), "\n")
	var current *models.ChapterStat
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		current.WordCount = utils.CalculateWordCount(current.Content)
		stats = append(stats, *current)
	}

	for _, line := range lines {
		if IsChapterHeading(line) {
			flush()
			title := headingTitle(line)
			if title == "" {
				title = fmt.Sprintf("Untitled Chapter %d", len(stats)+1)
			}
			current = &models.ChapterStat{Title: title, ID: ExtractChapterID(line)}
			body = body[:0]
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return stats
}
