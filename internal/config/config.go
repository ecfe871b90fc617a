package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Input files
	ResultsPath  string // Ground-truth results file (default: forecast_data/results.json)
	ForecastsDir string // Directory holding forecasts_<model>_<start>_<end>.json files

	// Story texts
	StoriesDir       string // Directory story texts are downloaded to
	GutenbergBaseURL string
	FetchConcurrency int // Max downloads in flight

	// Reporting
	TopK int // Stories shown in each ranking direction

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:     getEnv("DATABASE_PATH", "data/storycast.db"),
		ResultsPath:      getEnv("RESULTS_PATH", "forecast_data/results.json"),
		ForecastsDir:     getEnv("FORECASTS_DIR", "forecast_data"),
		StoriesDir:       getEnv("STORIES_DIR", "stories"),
		GutenbergBaseURL: getEnv("GUTENBERG_BASE_URL", "https://www.gutenberg.org"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.FetchConcurrency, err = strconv.Atoi(getEnv("FETCH_CONCURRENCY", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_CONCURRENCY: %w", err)
	}

	cfg.TopK, err = strconv.Atoi(getEnv("TOP_K", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOP_K: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForAnalysis checks configuration needed for scoring and reporting.
func (c *Config) ValidateForAnalysis() error {
	if c.ResultsPath == "" {
		return fmt.Errorf("RESULTS_PATH is required")
	}
	if c.ForecastsDir == "" {
		return fmt.Errorf("FORECASTS_DIR is required")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be positive")
	}
	return nil
}

// ValidateForFetch checks configuration needed for story downloads.
func (c *Config) ValidateForFetch() error {
	if c.StoriesDir == "" {
		return fmt.Errorf("STORIES_DIR is required")
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
