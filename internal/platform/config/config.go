// Package config loads application configuration from environment variables.
// All variables use the LOCKER_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Store      StoreConfig
	Extraction ExtractionConfig
	Curriculum CurriculumConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
	// MaxUploadBytes caps the size of an uploaded curriculum document.
	MaxUploadBytes int64
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Dragonfly/Redis connection settings.
type CacheConfig struct {
	URL     string
	Enabled bool
	TTL     time.Duration
}

// StoreConfig selects the course and enrollment store.
type StoreConfig struct {
	Driver string // "memory" or "postgres"
}

// ExtractionConfig configures the document extraction program.
type ExtractionConfig struct {
	Command string
	Script  string
	WorkDir string
	Timeout time.Duration // zero waits for the program to exit
}

// CurriculumConfig holds course seed settings.
type CurriculumConfig struct {
	Path string
	Kind string // default kind for generation and seeds
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with LOCKER_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           envInt("LOCKER_SERVER_PORT", 8080),
			Host:           envStr("LOCKER_SERVER_HOST", "0.0.0.0"),
			MaxUploadBytes: int64(envInt("LOCKER_SERVER_MAX_UPLOAD_MB", 32)) << 20,
		},
		Database: DatabaseConfig{
			URL:      envStr("LOCKER_DATABASE_URL", ""),
			MaxConns: envInt("LOCKER_DATABASE_MAX_CONNS", 25),
			MinConns: envInt("LOCKER_DATABASE_MIN_CONNS", 5),
		},
		Cache: CacheConfig{
			URL:     envStr("LOCKER_CACHE_URL", "redis://localhost:6379"),
			Enabled: envBool("LOCKER_CACHE_ENABLED", false),
			TTL:     envDuration("LOCKER_CACHE_TTL", 24*time.Hour),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(envStr("LOCKER_STORE_DRIVER", "memory")),
		},
		Extraction: ExtractionConfig{
			Command: envStr("LOCKER_EXTRACTION_COMMAND", "python3"),
			Script:  envStr("LOCKER_EXTRACTION_SCRIPT", "./scripts/extract_tables.py"),
			WorkDir: envStr("LOCKER_EXTRACTION_WORK_DIR", ""),
			Timeout: envDuration("LOCKER_EXTRACTION_TIMEOUT", 0),
		},
		Curriculum: CurriculumConfig{
			Path: envStr("LOCKER_CURRICULUM_PATH", "./courses"),
			Kind: envStr("LOCKER_CURRICULUM_KIND", "qualification"),
		},
		Log: LogConfig{
			Level:  envStr("LOCKER_LOG_LEVEL", "info"),
			Format: envStr("LOCKER_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("LOCKER_DATABASE_URL is required when LOCKER_STORE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("LOCKER_STORE_DRIVER must be 'memory' or 'postgres', got %q", c.Store.Driver)
	}

	switch strings.ToLower(c.Curriculum.Kind) {
	case "qualification", "standard", "gateway":
	default:
		return fmt.Errorf("LOCKER_CURRICULUM_KIND must be 'qualification', 'standard' or 'gateway', got %q", c.Curriculum.Kind)
	}

	if c.Extraction.Timeout < 0 {
		return fmt.Errorf("LOCKER_EXTRACTION_TIMEOUT must not be negative, got %s", c.Extraction.Timeout)
	}

	if c.Cache.Enabled && c.Cache.URL == "" {
		return fmt.Errorf("LOCKER_CACHE_URL is required when LOCKER_CACHE_ENABLED is set")
	}

	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
