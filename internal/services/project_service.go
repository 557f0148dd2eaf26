// internal/services/project_service.go
package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sachasayan/minstrel-sub000/internal/models"
	"github.com/sachasayan/minstrel-sub000/internal/storage"
	"github.com/sachasayan/minstrel-sub000/internal/story"
	"github.com/sachasayan/minstrel-sub000/internal/utils"
)

// ProjectService is the single mutation entry point for the active
// project. Every operation takes the lock, applies a pure document
// mutation and swaps the whole value in, so there is exactly one logical
// writer of StoryContent at a time. Whichever mutation lands last wins
// for the region it touches; the surgical chapter splice limits an agent
// edit's blast radius to the one chapter it targeted.
type ProjectService struct {
	FileStorage *storage.FileStorage

	mu                  sync.Mutex
	activeProject       *models.Project
	projectHasLiveEdits bool
	modifiedChapters    map[int]struct{}
	lastEdit            *models.EditRecord
}

// NewProjectService creates the project service on top of file storage.
func NewProjectService(fileStorage *storage.FileStorage) *ProjectService {
	return &ProjectService{
		FileStorage:      fileStorage,
		modifiedChapters: make(map[int]struct{}),
	}
}

// ActiveProject returns a copy of the active project.
func (s *ProjectService) ActiveProject() (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProject == nil {
		return models.Project{}, false
	}
	return cloneProject(*s.activeProject), true
}

// SetActiveProject replaces the whole project, running it through the
// normalizer, and resets all edit bookkeeping.
func (s *ProjectService) SetActiveProject(p models.Project) {
	normalized := story.NormalizeProjectStoryContent(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeProject = &normalized
	s.projectHasLiveEdits = false
	s.modifiedChapters = make(map[int]struct{})
	s.lastEdit = nil
}

// StartNewProject creates an empty project seeded with one empty
// "# Chapter 1" (ID-tagged) and makes it active.
func (s *ProjectService) StartNewProject(name string) models.Project {
	p := models.Project{
		Name:         name,
		StoryContent: story.EnsureAllChaptersHaveIDs("# Chapter 1\n\n"),
		Files:        []models.ProjectFile{},
		CreatedAt:    time.Now(),
	}
	s.SetActiveProject(p)
	return p
}

// UpdateFile overwrites the whole story document when targeting the
// reserved "Story" title (the raw editor surface), otherwise
// updates-or-inserts an ancillary file by title. chapterIndex < 0 means
// "not supplied". Always marks the project as having live edits.
func (s *ProjectService) UpdateFile(title, content string, chapterIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProject == nil {
		utils.GetLogger().Warn("update_file called with no active project", map[string]interface{}{
			"title": title,
		})
		return
	}

	if title == models.StoryFileTitle {
		s.activeProject.StoryContent = strings.ReplaceAll(content, "\r\n", "\n")
		if chapterIndex >= 0 {
			s.modifiedChapters[chapterIndex] = struct{}{}
		}
	} else {
		updated := false
		for i := range s.activeProject.Files {
			if s.activeProject.Files[i].Title == title {
				s.activeProject.Files[i].Content = content
				s.activeProject.Files[i].HasEdits = true
				updated = true
				break
			}
		}
		if !updated {
			s.activeProject.Files = append(s.activeProject.Files, models.ProjectFile{
				Title:    title,
				Content:  content,
				HasEdits: true,
			})
		}
	}

	s.projectHasLiveEdits = true
}

// UpdateChapter applies a surgical chapter replacement rather than
// overwriting the whole document. Strict-ID semantics come from
// story.ReplaceChapterContent: a stale chapterID leaves the document
// unchanged.
func (s *ProjectService) UpdateChapter(title, content, chapterID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProject == nil {
		utils.GetLogger().Warn("update_chapter called with no active project", map[string]interface{}{
			"title":      title,
			"chapter_id": chapterID,
		})
		return
	}

	s.activeProject.StoryContent = story.ReplaceChapterContent(
		s.activeProject.StoryContent, title, content, chapterID)
	s.projectHasLiveEdits = true
}

// AddChapter appends a numbered chapter at the end of the document and
// records the new chapter's index in the modified set. Returns the
// 0-based index of the appended chapter, or -1 with no active project.
func (s *ProjectService) AddChapter() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProject == nil {
		utils.GetLogger().Warn("add_chapter called with no active project", nil)
		return -1
	}

	doc, index := story.AppendChapter(s.activeProject.StoryContent)
	s.activeProject.StoryContent = doc
	s.modifiedChapters[index] = struct{}{}
	s.projectHasLiveEdits = true

	return index
}

// SetAllFilesAsSaved clears all dirty bookkeeping without touching the
// story document. Called only after persistence succeeds; a failed save
// must leave the project looking dirty.
func (s *ProjectService) SetAllFilesAsSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projectHasLiveEdits = false
	s.modifiedChapters = make(map[int]struct{})
	if s.activeProject != nil {
		for i := range s.activeProject.Files {
			s.activeProject.Files[i].HasEdits = false
		}
	}
}

// SetLastEdit records the most recent machine-authored change for the
// highlight engine. A new record always overwrites an unconsumed one:
// at most one pending highlight at a time, no queueing.
func (s *ProjectService) SetLastEdit(edit models.EditRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastEdit = &edit
}

// ClearLastEdit abandons any pending highlight, e.g. when the user
// starts typing before the highlight could be applied.
func (s *ProjectService) ClearLastEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastEdit = nil
}

// LastEdit returns the pending edit record, if any.
func (s *ProjectService) LastEdit() (models.EditRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastEdit == nil {
		return models.EditRecord{}, false
	}
	return *s.lastEdit, true
}

// HasLiveEdits reports whether unsaved edits exist.
func (s *ProjectService) HasLiveEdits() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectHasLiveEdits
}

// ModifiedChapters returns the sorted snapshot of chapter indexes touched
// since the last save.
func (s *ProjectService) ModifiedChapters() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	indexes := make([]int, 0, len(s.modifiedChapters))
	for i := range s.modifiedChapters {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

// Chapters derives the chapter list from the active story document.
func (s *ProjectService) Chapters() []models.Chapter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProject == nil {
		return []models.Chapter{}
	}
	return story.ChaptersFromStoryContent(s.activeProject.StoryContent)
}

// ChapterWordCounts derives per-chapter word counts for charts.
func (s *ProjectService) ChapterWordCounts() []models.ChapterStat {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProject == nil {
		return []models.ChapterStat{}
	}
	return story.ChapterWordCounts(s.activeProject.StoryContent)
}

// ChapterByID finds a chapter by its durable identity.
func (s *ProjectService) ChapterByID(id string) (*models.Chapter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProject == nil {
		return nil, false
	}
	return story.FindChapterByID(s.activeProject.StoryContent, id)
}

// ChapterContent extracts one chapter's trimmed body by title or ID.
func (s *ProjectService) ChapterContent(title, id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProject == nil {
		return "", false
	}
	return story.ExtractChapterContent(s.activeProject.StoryContent, title, id)
}

// LoadProject reads a project record from storage, normalizes it, runs
// the one-way ID migration and makes it active.
func (s *ProjectService) LoadProject(name string) (models.Project, error) {
	p, err := s.FileStorage.LoadProject(name)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to load project: %w", err)
	}

	p = story.NormalizeProjectStoryContent(p)
	p.StoryContent = story.EnsureAllChaptersHaveIDs(p.StoryContent)

	s.SetActiveProject(p)
	return p, nil
}

// SaveActiveProject persists the active project. Dirty bookkeeping is
// cleared only after the write succeeds, so a failed save leaves the
// project looking unsaved.
func (s *ProjectService) SaveActiveProject() error {
	s.mu.Lock()
	if s.activeProject == nil {
		s.mu.Unlock()
		return fmt.Errorf("no active project to save")
	}
	snapshot := cloneProject(*s.activeProject)
	s.mu.Unlock()

	snapshot.UpdatedAt = time.Now()
	persistable := story.BuildPersistableProject(snapshot)
	if err := s.FileStorage.SaveProject(persistable); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	s.mu.Lock()
	if s.activeProject != nil {
		s.activeProject.UpdatedAt = snapshot.UpdatedAt
	}
	s.mu.Unlock()

	s.SetAllFilesAsSaved()
	return nil
}

// ListProjects returns the names of all stored projects.
func (s *ProjectService) ListProjects() ([]string, error) {
	return s.FileStorage.ListProjects()
}

// cloneProject deep-copies a project so callers never alias the
// service's internal state.
func cloneProject(p models.Project) models.Project {
	files := make([]models.ProjectFile, len(p.Files))
	copy(files, p.Files)
	p.Files = files
	return p
}
