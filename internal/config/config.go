package config

import (
	"os"
	"path/filepath"

	"github.com/handsfree8/invoicemaker/internal/logger"
)

type Config struct {
	// Data Configuration
	DataDir   string // directory holding the sqlite database
	BackupDir string // directory receiving export and backup artifacts

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaultDataDir := filepath.Join(home, ".invoicemaker")

	config := &Config{
		DataDir:       getEnv("INVOICEMAKER_DATA_DIR", defaultDataDir),
		BackupDir:     getEnv("INVOICEMAKER_BACKUP_DIR", filepath.Join(defaultDataDir, "backups")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// DatabasePath is the location of the sqlite file backing the collections.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "invoicemaker.db")
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
