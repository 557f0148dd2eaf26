// internal/storage/file_storage_test.go
package storage

import (
	"testing"

	"github.com/sachasayan/minstrel-sub000/internal/models"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	return fs
}

func TestSaveAndLoadProject(t *testing.T) {
	fs := newTestStorage(t)

	p := models.Project{
		Name:         "draft",
		StoryContent: "# Chapter 1\n\nOpening line.\n",
		Files: []models.ProjectFile{
			{Title: "Outline", Type: models.FileTypeOutline, Content: "beats"},
		},
	}

	if err := fs.SaveProject(p); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	got, err := fs.LoadProject("draft")
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if got.StoryContent != p.StoryContent {
		t.Errorf("StoryContent = %q, want %q", got.StoryContent, p.StoryContent)
	}
	if len(got.Files) != 1 || got.Files[0].Title != "Outline" {
		t.Errorf("Files = %+v", got.Files)
	}
}

func TestLoadProjectMissing(t *testing.T) {
	fs := newTestStorage(t)
	if _, err := fs.LoadProject("nope"); err == nil {
		t.Error("expected error for missing project")
	}
}

func TestSaveProjectInvalidName(t *testing.T) {
	fs := newTestStorage(t)

	for _, name := range []string{"", "  ", "../escape", `a\b`} {
		if err := fs.SaveProject(models.Project{Name: name}); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
}

func TestListProjects(t *testing.T) {
	fs := newTestStorage(t)

	for _, name := range []string{"zeta", "alpha"} {
		if err := fs.SaveProject(models.Project{Name: name}); err != nil {
			t.Fatalf("SaveProject(%s): %v", name, err)
		}
	}

	names, err := fs.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("names = %v, want [alpha zeta]", names)
	}
}

func TestDeleteProject(t *testing.T) {
	fs := newTestStorage(t)

	if err := fs.SaveProject(models.Project{Name: "doomed"}); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	if err := fs.DeleteProject("doomed"); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if fs.ProjectExists("doomed") {
		t.Error("project still exists after delete")
	}
	if err := fs.DeleteProject("doomed"); err == nil {
		t.Error("expected error deleting twice")
	}
}

func TestSaveInvalidatesCache(t *testing.T) {
	fs := newTestStorage(t)

	p := models.Project{Name: "cached", StoryContent: "# Chapter 1\n"}
	if err := fs.SaveProject(p); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	if _, err := fs.LoadProject("cached"); err != nil {
		t.Fatalf("LoadProject: %v", err)
	}

	p.StoryContent = "# Chapter 1\n\nrevised\n"
	if err := fs.SaveProject(p); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	got, err := fs.LoadProject("cached")
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if got.StoryContent != p.StoryContent {
		t.Error("stale cached content served after save")
	}
}
