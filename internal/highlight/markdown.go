// internal/highlight/markdown.go
package highlight

import (
	"regexp"
	"strings"
)

// Single-pass strip patterns, applied in a fixed order. The output must
// align 1:1 with the plain text a rich-text surface extracts for the same
// content, so diffing rendered text against stored Markdown never flags
// formatting-only edits.
var (
	headingMarkerRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldStarRe      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderRe     = regexp.MustCompile(`__([^_]+)__`)
	italicStarRe    = regexp.MustCompile(`\*([^*\n]+)\*`)
	italicUnderRe   = regexp.MustCompile(`_([^_\n]+)_`)
	linkRe          = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	fenceLineRe     = regexp.MustCompile("(?m)^```[^\n]*$")
	inlineCodeRe    = regexp.MustCompile("`([^`\n]*)`")
	lineMarkerRe    = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d+\.|>)[ \t]+`)
	blankRunRe      = regexp.MustCompile(`\n[ \t]*(?:\n[ \t]*)+`)
	hspaceRunRe     = regexp.MustCompile(`[ \t]+`)
)

// StripMarkdown reduces Markdown to the plaintext a reader sees: heading
// markers, bold/italic markers, link syntax (link text kept, URL dropped),
// code markers and leading list/blockquote markers are removed in that
// order, then blank-line runs collapse to one blank line, horizontal
// whitespace runs collapse to a single space, and the result is trimmed.
// Already-stripped output is never re-processed by a later pattern.
func StripMarkdown(markdown string) string {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")

	text = headingMarkerRe.ReplaceAllString(text, "")
	text = boldStarRe.ReplaceAllString(text, "$1")
	text = boldUnderRe.ReplaceAllString(text, "$1")
	text = italicStarRe.ReplaceAllString(text, "$1")
	text = italicUnderRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = fenceLineRe.ReplaceAllString(text, "")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = lineMarkerRe.ReplaceAllString(text, "")

	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = hspaceRunRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
