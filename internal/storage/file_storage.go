// internal/storage/file_storage.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sachasayan/minstrel-sub000/internal/models"
)

const projectFileExt = ".json"

// FileStorage persists project records as JSON documents under a base
// directory, one file per project.
type FileStorage struct {
	BaseDir string

	// per-path locks so a save and a load of the same project never race
	fileLocks sync.Map // path -> *sync.RWMutex

	cache        map[string]*cacheEntry
	cacheMutex   sync.RWMutex
	cacheExpiry  time.Duration
	maxCacheSize int
}

type cacheEntry struct {
	data      []byte
	timestamp time.Time
}

// NewFileStorage creates the storage layer rooted at baseDir.
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	fs := &FileStorage{
		BaseDir:      baseDir,
		cache:        make(map[string]*cacheEntry),
		cacheExpiry:  5 * time.Minute,
		maxCacheSize: 50,
	}

	fs.startCacheCleanup()

	return fs, nil
}

func (fs *FileStorage) getFileLock(fullPath string) *sync.RWMutex {
	value, _ := fs.fileLocks.LoadOrStore(fullPath, &sync.RWMutex{})
	return value.(*sync.RWMutex)
}

// projectPath validates the project name and maps it to its file path.
// Names never travel into path separators.
func (fs *FileStorage) projectPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("project name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid project name: %s", name)
	}
	return filepath.Join(fs.BaseDir, name+projectFileExt), nil
}

// SaveProject writes a project record atomically: serialize, write to a
// temp file, rename over the target. A failed rename never leaves a
// half-written project behind.
func (fs *FileStorage) SaveProject(p models.Project) error {
	fullPath, err := fs.projectPath(p.Name)
	if err != nil {
		return err
	}

	content, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize project: %w", err)
	}

	lock := fs.getFileLock(fullPath)
	lock.Lock()
	defer lock.Unlock()

	tempPath := fullPath + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save project: %w", err)
	}

	fs.invalidateCache(fullPath)

	return nil
}

// LoadProject reads a project record, via the read cache when fresh.
func (fs *FileStorage) LoadProject(name string) (models.Project, error) {
	var p models.Project

	fullPath, err := fs.projectPath(name)
	if err != nil {
		return p, err
	}

	if data, ok := fs.cachedData(fullPath); ok {
		if err := json.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("failed to parse project: %w", err)
		}
		return p, nil
	}

	lock := fs.getFileLock(fullPath)
	lock.RLock()
	defer lock.RUnlock()

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return p, fmt.Errorf("failed to read project %s: %w", name, err)
	}

	fs.updateCache(fullPath, content)

	if err := json.Unmarshal(content, &p); err != nil {
		return p, fmt.Errorf("failed to parse project: %w", err)
	}
	return p, nil
}

// ProjectExists reports whether a project record is on disk.
func (fs *FileStorage) ProjectExists(name string) bool {
	fullPath, err := fs.projectPath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// DeleteProject removes a project record.
func (fs *FileStorage) DeleteProject(name string) error {
	fullPath, err := fs.projectPath(name)
	if err != nil {
		return err
	}

	lock := fs.getFileLock(fullPath)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("project does not exist: %s", name)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	fs.invalidateCache(fullPath)

	return nil
}

// ListProjects returns all stored project names, sorted.
func (fs *FileStorage) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(fs.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), projectFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), projectFileExt))
	}
	sort.Strings(names)

	return names, nil
}

// -----------------------------------------
// cache management

func (fs *FileStorage) cachedData(path string) ([]byte, bool) {
	fs.cacheMutex.RLock()
	defer fs.cacheMutex.RUnlock()

	entry, exists := fs.cache[path]
	if !exists || time.Since(entry.timestamp) >= fs.cacheExpiry {
		return nil, false
	}
	return entry.data, true
}

func (fs *FileStorage) updateCache(path string, data []byte) {
	fs.cacheMutex.Lock()
	defer fs.cacheMutex.Unlock()

	fs.cache[path] = &cacheEntry{data: data, timestamp: time.Now()}

	if len(fs.cache) <= fs.maxCacheSize {
		return
	}

	// evict the oldest entry
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range fs.cache {
		if oldestKey == "" || entry.timestamp.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.timestamp
		}
	}
	if oldestKey != "" {
		delete(fs.cache, oldestKey)
	}
}

func (fs *FileStorage) invalidateCache(path string) {
	fs.cacheMutex.Lock()
	defer fs.cacheMutex.Unlock()

	delete(fs.cache, path)
}

func (fs *FileStorage) startCacheCleanup() {
	go func() {
		ticker := time.NewTicker(2 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			fs.cleanupExpiredCache()
		}
	}()
}

func (fs *FileStorage) cleanupExpiredCache() {
	fs.cacheMutex.Lock()
	defer fs.cacheMutex.Unlock()

	now := time.Now()
	for path, entry := range fs.cache {
		if now.Sub(entry.timestamp) > fs.cacheExpiry {
			delete(fs.cache, path)
		}
	}
}
