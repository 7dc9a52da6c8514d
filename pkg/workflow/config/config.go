// Package config holds runtime settings for the scraper application:
// checkpoint backend selection, engine limits, and an open map of
// workflow-private settings with type-safe accessors.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/RMASolutions/jobscraper/pkg/workflow/checkpoint"
)

// Checkpoint backend names accepted in Settings.CheckpointBackend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Settings is the application configuration.
type Settings struct {
	// CheckpointBackend selects the store: "memory", "sqlite" or "redis".
	CheckpointBackend string `yaml:"checkpoint_backend"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// RedisAddr is the host:port for the redis backend.
	RedisAddr string `yaml:"redis_addr"`

	// RedisDB is the redis logical database.
	RedisDB int `yaml:"redis_db"`

	// RedisTTL expires redis checkpoints; zero means no expiry.
	RedisTTL time.Duration `yaml:"redis_ttl"`

	// MaxIterations bounds the steps of a single run.
	MaxIterations int `yaml:"max_iterations"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// Workflow carries workflow-private settings (poll intervals,
	// selectors, mailbox names). Read through the typed accessors.
	Workflow map[string]any `yaml:"workflow"`
}

// Default returns the baseline settings.
func Default() Settings {
	return Settings{
		CheckpointBackend: BackendMemory,
		SQLitePath:        "./checkpoints.db",
		RedisAddr:         "localhost:6379",
		MaxIterations:     1000,
		LogLevel:          "info",
		Workflow:          map[string]any{},
	}
}

// OpenStore constructs the configured checkpoint backend.
func (s Settings) OpenStore() (checkpoint.Store, error) {
	switch s.CheckpointBackend {
	case "", BackendMemory:
		return checkpoint.NewMemoryStore(), nil
	case BackendSQLite:
		return checkpoint.NewSQLiteStore(s.SQLitePath)
	case BackendRedis:
		opts := []checkpoint.RedisOption{checkpoint.WithRedisDB(s.RedisDB)}
		if s.RedisTTL > 0 {
			opts = append(opts, checkpoint.WithTTL(s.RedisTTL))
		}
		return checkpoint.NewRedisStore(s.RedisAddr, opts...)
	default:
		return nil, fmt.Errorf("unknown checkpoint backend: %q", s.CheckpointBackend)
	}
}

// Level maps LogLevel to a slog level. Unknown values default to info.
func (s Settings) Level() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// String returns the workflow setting for key, or defaultVal if missing
// or not a string.
func (s Settings) String(key, defaultVal string) string {
	v, ok := s.Workflow[key]
	if !ok {
		return defaultVal
	}
	if str, ok := v.(string); ok {
		return str
	}
	return defaultVal
}

// Bool returns the workflow setting for key, or defaultVal if missing or
// not a bool.
func (s Settings) Bool(key string, defaultVal bool) bool {
	v, ok := s.Workflow[key]
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the workflow setting for key, or defaultVal if missing or
// not convertible. Floats convert only when they carry no fraction.
func (s Settings) Int(key string, defaultVal int) int {
	v, ok := s.Workflow[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// Duration returns the workflow setting for key, or defaultVal if missing
// or invalid. Strings are parsed with time.ParseDuration; numbers are
// interpreted as seconds.
func (s Settings) Duration(key string, defaultVal time.Duration) time.Duration {
	v, ok := s.Workflow[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case float64:
		return time.Duration(val * float64(time.Second))
	case time.Duration:
		return val
	}
	return defaultVal
}
