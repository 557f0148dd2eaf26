// internal/api/handlers.go
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/sachasayan/minstrel-sub000/internal/highlight"
	"github.com/sachasayan/minstrel-sub000/internal/models"
	"github.com/sachasayan/minstrel-sub000/internal/services"
	"github.com/sachasayan/minstrel-sub000/internal/utils"
)

// Handler bundles the API endpoints over the project service.
type Handler struct {
	ProjectService *services.ProjectService
}

func NewHandler(projectService *services.ProjectService) *Handler {
	return &Handler{ProjectService: projectService}
}

// ----------------------------------------
// Project lifecycle
// ----------------------------------------

// CreateProject starts a new named project seeded with one chapter.
// POST /api/projects
func (h *Handler) CreateProject(c *gin.Context) {
	resp := NewResponseHelper(c)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest("name is required")
		return
	}

	if h.ProjectService.FileStorage.ProjectExists(req.Name) {
		resp.Conflict("a project with this name already exists")
		return
	}

	p := h.ProjectService.StartNewProject(req.Name)
	resp.Created(p)
}

// ListProjects returns the names of all stored projects.
// GET /api/projects
func (h *Handler) ListProjects(c *gin.Context) {
	resp := NewResponseHelper(c)

	names, err := h.ProjectService.ListProjects()
	if err != nil {
		resp.InternalError("failed to list projects")
		return
	}
	resp.Success(gin.H{"projects": names})
}

// LoadProject makes a stored project the active one.
// POST /api/projects/:name/load
func (h *Handler) LoadProject(c *gin.Context) {
	resp := NewResponseHelper(c)

	name := c.Param("name")
	p, err := h.ProjectService.LoadProject(name)
	if err != nil {
		resp.NotFound("project not found: " + name)
		return
	}
	resp.Success(p)
}

// SaveProject persists the active project.
// POST /api/projects/save
func (h *Handler) SaveProject(c *gin.Context) {
	resp := NewResponseHelper(c)

	if err := h.ProjectService.SaveActiveProject(); err != nil {
		resp.InternalError(err.Error())
		return
	}
	resp.Success(gin.H{"saved": true})
}

// ----------------------------------------
// Document reads
// ----------------------------------------

// GetProject returns the active project.
// GET /api/project
func (h *Handler) GetProject(c *gin.Context) {
	resp := NewResponseHelper(c)

	p, ok := h.ProjectService.ActiveProject()
	if !ok {
		resp.NotFound("no active project")
		return
	}
	resp.Success(gin.H{
		"project":    p,
		"live_edits": h.ProjectService.HasLiveEdits(),
	})
}

// GetChapters returns the derived chapter list.
// GET /api/project/chapters
func (h *Handler) GetChapters(c *gin.Context) {
	NewResponseHelper(c).Success(gin.H{
		"chapters": h.ProjectService.Chapters(),
		"modified": h.ProjectService.ModifiedChapters(),
	})
}

// GetChapterWordCounts returns per-chapter word counts.
// GET /api/project/chapters/wordcounts
func (h *Handler) GetChapterWordCounts(c *gin.Context) {
	NewResponseHelper(c).Success(gin.H{
		"chapters": h.ProjectService.ChapterWordCounts(),
	})
}

// GetChapter returns one chapter by its durable identity.
// GET /api/project/chapters/:id
func (h *Handler) GetChapter(c *gin.Context) {
	resp := NewResponseHelper(c)

	id := c.Param("id")
	chapter, ok := h.ProjectService.ChapterByID(id)
	if !ok {
		resp.NotFound("no chapter with id " + id)
		return
	}
	resp.Success(chapter)
}

// ----------------------------------------
// Mutations
// ----------------------------------------

// UpdateChapter applies a machine-authored chapter replacement,
// records it for highlighting and broadcasts the computed ranges.
// PUT /api/project/chapters
func (h *Handler) UpdateChapter(c *gin.Context) {
	resp := NewResponseHelper(c)

	var req struct {
		Title     string `json:"title"`
		Content   string `json:"content" binding:"required"`
		ChapterID string `json:"chapter_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest("content is required")
		return
	}
	if req.Title == "" && req.ChapterID == "" {
		resp.BadRequest("title or chapter_id is required")
		return
	}

	p, ok := h.ProjectService.ActiveProject()
	if !ok {
		resp.NotFound("no active project")
		return
	}

	oldContent, _ := h.ProjectService.ChapterContent(req.Title, req.ChapterID)

	h.ProjectService.UpdateChapter(req.Title, req.Content, req.ChapterID)

	newContent, found := h.ProjectService.ChapterContent(req.Title, req.ChapterID)
	if !found || newContent == oldContent {
		// stale id or no-op replacement, nothing to highlight
		resp.Success(gin.H{"updated": false, "ranges": []models.Range{}})
		return
	}

	chapterIndex := -1
	if req.ChapterID != "" {
		if ch, ok := h.ProjectService.ChapterByID(req.ChapterID); ok {
			chapterIndex = ch.Index
		}
	}

	edit := models.EditRecord{
		FileTitle:    models.StoryFileTitle,
		OldContent:   oldContent,
		NewContent:   newContent,
		ChapterIndex: chapterIndex,
		ChapterID:    req.ChapterID,
	}
	h.ProjectService.SetLastEdit(edit)

	ranges := highlight.RangesForEdit(edit)
	BroadcastChapterUpdated(p.Name, req.ChapterID, chapterIndex, ranges)

	utils.GetLogger().Info("chapter updated", map[string]interface{}{
		"title":      req.Title,
		"chapter_id": req.ChapterID,
		"ranges":     len(ranges),
	})

	resp.Success(gin.H{"updated": true, "ranges": ranges})
}

// AddChapter appends a numbered empty chapter.
// POST /api/project/chapters
func (h *Handler) AddChapter(c *gin.Context) {
	resp := NewResponseHelper(c)

	index := h.ProjectService.AddChapter()
	if index < 0 {
		resp.NotFound("no active project")
		return
	}
	resp.Created(gin.H{
		"index":    index,
		"chapters": h.ProjectService.Chapters(),
	})
}

// UpdateFile overwrites the story document (title "Story") or upserts
// an ancillary file. This is the human-typing path, so it also clears
// any pending highlight.
// PUT /api/project/files
func (h *Handler) UpdateFile(c *gin.Context) {
	resp := NewResponseHelper(c)

	var req struct {
		Title        string `json:"title" binding:"required"`
		Content      string `json:"content"`
		ChapterIndex *int   `json:"chapter_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest("title is required")
		return
	}

	chapterIndex := -1
	if req.ChapterIndex != nil {
		chapterIndex = *req.ChapterIndex
	}

	h.ProjectService.UpdateFile(req.Title, req.Content, chapterIndex)
	h.ProjectService.ClearLastEdit()

	resp.Success(gin.H{"updated": true})
}

// ----------------------------------------
// Highlight
// ----------------------------------------

// GetLastEditRanges computes highlight ranges for the pending edit.
// GET /api/project/last-edit/ranges
func (h *Handler) GetLastEditRanges(c *gin.Context) {
	resp := NewResponseHelper(c)

	edit, ok := h.ProjectService.LastEdit()
	if !ok {
		resp.Success(gin.H{"pending": false, "ranges": []models.Range{}})
		return
	}

	ranges := highlight.RangesForEdit(edit)
	resp.Success(gin.H{
		"pending":    true,
		"chapter_id": edit.ChapterID,
		"ranges":     ranges,
	})
}

// ClearLastEdit abandons the pending highlight.
// DELETE /api/project/last-edit
func (h *Handler) ClearLastEdit(c *gin.Context) {
	h.ProjectService.ClearLastEdit()
	NewResponseHelper(c).Success(gin.H{"cleared": true})
}

// ProjectWebSocket subscribes the caller to a project's event stream.
// GET /ws/project/:name
func (h *Handler) ProjectWebSocket(c *gin.Context) {
	HandleProjectWebSocket(c, h.ProjectService)
}
