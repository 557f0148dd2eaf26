// internal/models/project.go
package models

import (
	"time"
)

// ProjectFileType classifies an ancillary project artifact.
type ProjectFileType string

const (
	// FileTypeOutline marks the outline document
	FileTypeOutline ProjectFileType = "outline"
	// FileTypeSkeleton marks the skeleton document
	FileTypeSkeleton ProjectFileType = "skeleton"
	// FileTypeNotes marks free-form notes
	FileTypeNotes ProjectFileType = "notes"
	// FileTypeChapter marks a legacy per-chapter artifact; never kept in Files
	FileTypeChapter ProjectFileType = "chapter"
	// FileTypeStory marks the legacy whole-story blob; never kept in Files
	FileTypeStory ProjectFileType = "story"
)

// StoryFileTitle is the reserved title of the legacy whole-story artifact.
// UpdateFile calls targeting this title overwrite StoryContent wholesale.
const StoryFileTitle = "Story"

// Project owns one story document plus its ancillary files.
type Project struct {
	Name         string        `json:"name"`
	StoryContent string        `json:"story_content"` // chapters delimited by "# " headings
	Files        []ProjectFile `json:"files"`
	CreatedAt    time.Time     `json:"created_at,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at,omitempty"`
}

// ProjectFile is an ancillary, non-chapter artifact (Outline, Skeleton, Notes...).
type ProjectFile struct {
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Type      ProjectFileType `json:"type,omitempty"`
	SortOrder int             `json:"sort_order,omitempty"`
	HasEdits  bool            `json:"has_edits,omitempty"`
}

// Chapter is a virtual entity, always derived by scanning StoryContent.
// Index is a snapshot of document order, not an identity; ID is durable.
type Chapter struct {
	Title   string `json:"title"`
	ID      string `json:"id,omitempty"`
	Index   int    `json:"index"`
	Content string `json:"content,omitempty"`
}

// ChapterStat carries the per-chapter word-count feed for charts.
type ChapterStat struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
	ID        string `json:"id,omitempty"`
}

// EditRecord is the single-slot record of the most recent machine-authored
// change, consumed once by the change-highlight engine and then cleared.
type EditRecord struct {
	FileTitle    string `json:"file_title"`
	OldContent   string `json:"old_content"`
	NewContent   string `json:"new_content"`
	ChapterIndex int    `json:"chapter_index"` // -1 when not supplied
	ChapterID    string `json:"chapter_id,omitempty"`
}

// Range is a half-open [Start, End) interval of rune offsets into the
// post-edit plaintext, flagged as newly added.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}
