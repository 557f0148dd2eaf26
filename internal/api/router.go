// internal/api/router.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sachasayan/minstrel-sub000/internal/app"
	"github.com/sachasayan/minstrel-sub000/internal/config"
)

// SetupRouter builds the gin engine with all routes registered.
func SetupRouter() *gin.Engine {
	cfg := config.GetCurrentConfig()
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(RequestLoggerMiddleware())

	handler := NewHandler(app.GetProjectService())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	{
		projects := apiGroup.Group("/projects")
		{
			projects.POST("", handler.CreateProject)
			projects.GET("", handler.ListProjects)
			projects.POST("/:name/load", handler.LoadProject)
			projects.POST("/save", handler.SaveProject)
		}

		project := apiGroup.Group("/project")
		{
			project.GET("", handler.GetProject)
			project.GET("/chapters", handler.GetChapters)
			project.GET("/chapters/wordcounts", handler.GetChapterWordCounts)
			project.GET("/chapters/:id", handler.GetChapter)
			project.PUT("/chapters", handler.UpdateChapter)
			project.POST("/chapters", handler.AddChapter)
			project.PUT("/files", handler.UpdateFile)
			project.GET("/last-edit/ranges", handler.GetLastEditRanges)
			project.DELETE("/last-edit", handler.ClearLastEdit)
		}
	}

	r.GET("/ws/project/:name", handler.ProjectWebSocket)

	return r
}
