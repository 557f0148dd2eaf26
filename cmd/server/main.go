// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sachasayan/minstrel-sub000/internal/api"
	"github.com/sachasayan/minstrel-sub000/internal/app"
	"github.com/sachasayan/minstrel-sub000/internal/config"
	"github.com/sachasayan/minstrel-sub000/internal/di"
	"github.com/sachasayan/minstrel-sub000/internal/utils"
)

func main() {
	// 1. base configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// 2. directory layout
	createDirectories(cfg)

	// 3. logging
	logFile := filepath.Join(cfg.LogDir, "server.log")
	if err := utils.InitLogger(logFile); err != nil {
		log.Printf("warning: file logging unavailable: %v", err)
	}
	logger := utils.GetLogger()
	if cfg.DebugMode {
		logger.SetLogLevel(utils.DEBUG)
	}

	// 4. services behind the DI container
	if err := app.InitServices(cfg); err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	if err := performHealthCheck(); err != nil {
		logger.Warn("service health check", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// 5. routes
	router := api.SetupRouter()

	logger.Info("Server starting", map[string]interface{}{
		"port":     cfg.Port,
		"data_dir": cfg.DataDir,
	})

	setupGracefulShutdown(router, cfg.Port)
}

// performHealthCheck verifies the critical services are registered.
func performHealthCheck() error {
	container := di.GetContainer()

	for _, serviceName := range []string{"storage", "project"} {
		if container.Get(serviceName) == nil {
			return fmt.Errorf("critical service not registered: %s", serviceName)
		}
	}
	return nil
}

// setupGracefulShutdown runs the server and drains it on SIGINT/SIGTERM.
func setupGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.GetLogger().Info("Server shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced server shutdown: %v", err)
	}
}

// createDirectories ensures the on-disk layout exists before services start.
func createDirectories(cfg *config.Config) {
	dirs := []string{
		cfg.DataDir,
		cfg.ProjectsDir(),
		cfg.LogDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("warning: failed to create directory %s: %v", dir, err)
		}
	}
}
