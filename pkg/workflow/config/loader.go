package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces the environment variables read by FromEnv.
const envPrefix = "JOBSCRAPER_"

// Load reads settings from a YAML file, layered over Default().
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config: %w", err)
	}
	if s.Workflow == nil {
		s.Workflow = map[string]any{}
	}
	return s, nil
}

// LoadEnv loads .env files into the process environment before FromEnv is
// applied. Missing files are not an error; a plain environment is fine.
func LoadEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// FromEnv overlays JOBSCRAPER_* environment variables on s and returns
// the result. Recognized variables:
//
//	JOBSCRAPER_CHECKPOINT_BACKEND
//	JOBSCRAPER_SQLITE_PATH
//	JOBSCRAPER_REDIS_ADDR
//	JOBSCRAPER_REDIS_DB
//	JOBSCRAPER_REDIS_TTL        (time.ParseDuration syntax)
//	JOBSCRAPER_MAX_ITERATIONS
//	JOBSCRAPER_LOG_LEVEL
func FromEnv(s Settings) Settings {
	if v := os.Getenv(envPrefix + "CHECKPOINT_BACKEND"); v != "" {
		s.CheckpointBackend = v
	}
	if v := os.Getenv(envPrefix + "SQLITE_PATH"); v != "" {
		s.SQLitePath = v
	}
	if v := os.Getenv(envPrefix + "REDIS_ADDR"); v != "" {
		s.RedisAddr = v
	}
	if v := os.Getenv(envPrefix + "REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			s.RedisDB = db
		}
	}
	if v := os.Getenv(envPrefix + "REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			s.RedisTTL = d
		}
	}
	if v := os.Getenv(envPrefix + "MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.MaxIterations = n
		}
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	return s
}
