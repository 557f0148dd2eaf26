// internal/app/app.go
package app

import (
	"fmt"

	"github.com/sachasayan/minstrel-sub000/internal/config"
	"github.com/sachasayan/minstrel-sub000/internal/di"
	"github.com/sachasayan/minstrel-sub000/internal/services"
	"github.com/sachasayan/minstrel-sub000/internal/storage"
	"github.com/sachasayan/minstrel-sub000/internal/utils"
)

// InitServices builds the service graph and registers it in the DI
// container: storage first, then the project service on top of it.
func InitServices(cfg *config.Config) error {
	container := di.GetContainer()
	logger := utils.GetLogger()

	fileStorage, err := storage.NewFileStorage(cfg.ProjectsDir())
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}
	container.Register("storage", fileStorage)

	projectService := services.NewProjectService(fileStorage)
	container.Register("project", projectService)

	logger.Info("Services initialized", map[string]interface{}{
		"services": container.GetNames(),
	})
	return nil
}

// GetProjectService fetches the project service from the container.
func GetProjectService() *services.ProjectService {
	svc, _ := di.GetContainer().Get("project").(*services.ProjectService)
	return svc
}

// GetFileStorage fetches the storage layer from the container.
func GetFileStorage() *storage.FileStorage {
	fs, _ := di.GetContainer().Get("storage").(*storage.FileStorage)
	return fs
}
