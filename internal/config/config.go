// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or malformed, Load errors and
// the process exits.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingDatabaseURL  = errors.New("DATABASE_URL is required")
	ErrMissingRedisURL     = errors.New("REDIS_URL is required")
	ErrInvalidInterval     = errors.New("REFRESH_INTERVAL_HOURS must be a positive integer")
	ErrInvalidTimeout      = errors.New("LIVE_FEED_TIMEOUT_SEC must be a positive integer")
	ErrInvalidLogLevel     = errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	ErrSnapshotMissingPath = errors.New("snapshot path is required")
	ErrLiveMissingURL      = errors.New("live url is required")
)

const defaultSnapshotFiles = "real_asia_education_jobs.json,asia_education_jobs_database.json"

// Config holds all runtime configuration for the aggregator service.
type Config struct {
	Port                 string
	DatabaseURL          string
	RedisURL             string
	RefreshIntervalHours int
	LiveTimeout          time.Duration
	LogLevel             slog.Level
	Sources              Sources
}

// Sources lists where raw records come from. Snapshots are merged before
// live sources in every cycle.
type Sources struct {
	Snapshots []SnapshotSource `yaml:"snapshots"`
	Live      []LiveSource     `yaml:"live"`
}

// SnapshotSource is a local JSON file.
type SnapshotSource struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// LiveSource is an HTTP endpoint returning flattened postings.
type LiveSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// RefreshInterval is RefreshIntervalHours as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalHours) * time.Hour
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, ErrMissingRedisURL
	}

	interval, err := positiveInt("REFRESH_INTERVAL_HOURS", 6, ErrInvalidInterval)
	if err != nil {
		return nil, err
	}

	timeoutSec, err := positiveInt("LIVE_FEED_TIMEOUT_SEC", 15, ErrInvalidTimeout)
	if err != nil {
		return nil, err
	}

	level, err := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	port := os.Getenv("AGGREGATOR_PORT")
	if port == "" {
		port = "8083"
	}

	var sources Sources
	if path := os.Getenv("SOURCES_FILE"); path != "" {
		sources, err = LoadSources(path)
		if err != nil {
			return nil, err
		}
	} else {
		sources = envSources()
	}

	return &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		RefreshIntervalHours: interval,
		LiveTimeout:          time.Duration(timeoutSec) * time.Second,
		LogLevel:             level,
		Sources:              sources,
	}, nil
}

// LoadSources reads a YAML sources file.
func LoadSources(path string) (Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sources{}, fmt.Errorf("failed to read sources file: %w", err)
	}

	var s Sources
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sources{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Sources{}, fmt.Errorf("sources validation failed: %w", err)
	}
	return s, nil
}

// Validate checks every entry has a location.
func (s Sources) Validate() error {
	for i, snap := range s.Snapshots {
		if strings.TrimSpace(snap.Path) == "" {
			return fmt.Errorf("%w: snapshots[%d]", ErrSnapshotMissingPath, i)
		}
	}
	for i, live := range s.Live {
		if strings.TrimSpace(live.URL) == "" {
			return fmt.Errorf("%w: live[%d]", ErrLiveMissingURL, i)
		}
	}
	return nil
}

// ParseLogLevel maps a LOG_LEVEL value to a slog level. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w, got %q", ErrInvalidLogLevel, s)
}

func envSources() Sources {
	files := os.Getenv("SNAPSHOT_FILES")
	if files == "" {
		files = defaultSnapshotFiles
	}

	var s Sources
	for _, f := range strings.Split(files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			s.Snapshots = append(s.Snapshots, SnapshotSource{Name: f, Path: f})
		}
	}
	if u := strings.TrimSpace(os.Getenv("LIVE_FEED_URL")); u != "" {
		s.Live = append(s.Live, LiveSource{Name: "live", URL: u})
	}
	return s
}

func positiveInt(name string, def int, sentinel error) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%w, got %q", sentinel, s)
	}
	return v, nil
}
