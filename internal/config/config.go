// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	currentConfig *Config
	configMutex   sync.RWMutex
)

// Config holds the application configuration.
type Config struct {
	Port      string
	DataDir   string
	LogDir    string
	DebugMode bool
}

// ProjectsDir is where project records live under the data directory.
func (c *Config) ProjectsDir() string {
	return filepath.Join(c.DataDir, "projects")
}

// Load reads configuration from the environment, with an optional .env
// file, and installs it as the current configuration.
func Load() (*Config, error) {
	// .env is optional
	godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DataDir:   getEnvPath("DATA_DIR", "data"),
		LogDir:    getEnvPath("LOG_DIR", "logs"),
		DebugMode: getEnvBool("DEBUG_MODE", true),
	}

	configMutex.Lock()
	currentConfig = cfg
	configMutex.Unlock()

	return cfg, nil
}

// GetCurrentConfig returns a copy of the current configuration, loading
// defaults if Load has not run yet.
func GetCurrentConfig() *Config {
	configMutex.RLock()
	cfg := currentConfig
	configMutex.RUnlock()

	if cfg == nil {
		loaded, _ := Load()
		return loaded
	}

	configCopy := *cfg
	return &configCopy
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath reads a path-valued variable and ensures the directory exists.
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: failed to create directory %s: %v\n", path, err)
		}
	}

	return path
}

// getEnvBool reads a boolean-valued variable.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}
