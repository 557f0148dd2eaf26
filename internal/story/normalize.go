// internal/story/normalize.go
package story

import (
	"github.com/sachasayan/minstrel-sub000/internal/models"
)

// isChapterArtifact reports whether an ancillary entry is really chapter
// material that belongs inside StoryContent: legacy per-chapter files and
// the legacy monolithic "Story" blob.
func isChapterArtifact(f models.ProjectFile) bool {
	if f.Type == models.FileTypeChapter {
		return true
	}
	return f.Type == models.FileTypeStory || f.Title == models.StoryFileTitle
}

// NormalizeProjectStoryContent reconciles a freshly loaded project record:
// line endings are canonicalized and chapter artifacts are excluded from
// the ancillary files list (their content is already represented in
// StoryContent upstream; this is exclusion, not migration). Idempotent.
func NormalizeProjectStoryContent(p models.Project) models.Project {
	p.StoryContent = normalizeNewlines(p.StoryContent)

	files := make([]models.ProjectFile, 0, len(p.Files))
	for _, f := range p.Files {
		if isChapterArtifact(f) {
			continue
		}
		files = append(files, f)
	}
	p.Files = files

	return p
}

// BuildPersistableProject shapes a project for the persistence layer.
// Today this is the normalizer; it stays a distinct named seam because the
// persistence format may diverge from the in-memory format (e.g. a
// migration reconstructing a legacy per-chapter file layout for export).
func BuildPersistableProject(p models.Project) models.Project {
	return NormalizeProjectStoryContent(p)
}
