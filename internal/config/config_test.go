package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env and restore after test
	origEnv := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range origEnv {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					os.Setenv(e[:i], e[i+1:])
					break
				}
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "data/storycast.db", cfg.DatabasePath)
		assert.Equal(t, "forecast_data/results.json", cfg.ResultsPath)
		assert.Equal(t, "forecast_data", cfg.ForecastsDir)
		assert.Equal(t, "stories", cfg.StoriesDir)
		assert.Equal(t, "https://www.gutenberg.org", cfg.GutenbergBaseURL)
		assert.Equal(t, 20, cfg.FetchConcurrency)
		assert.Equal(t, 5, cfg.TopK)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("DATABASE_PATH", "/custom/path.db")
		os.Setenv("RESULTS_PATH", "/data/results.json")
		os.Setenv("FETCH_CONCURRENCY", "50")
		os.Setenv("TOP_K", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/custom/path.db", cfg.DatabasePath)
		assert.Equal(t, "/data/results.json", cfg.ResultsPath)
		assert.Equal(t, 50, cfg.FetchConcurrency)
		assert.Equal(t, 10, cfg.TopK)
	})

	t.Run("invalid integer", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("FETCH_CONCURRENCY", "notanumber")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "FETCH_CONCURRENCY")
	})
}

func TestValidate(t *testing.T) {
	t.Run("analysis needs inputs and a positive k", func(t *testing.T) {
		cfg := &Config{ResultsPath: "r.json", ForecastsDir: "forecast_data", TopK: 5}
		assert.NoError(t, cfg.ValidateForAnalysis())

		cfg.TopK = 0
		assert.Error(t, cfg.ValidateForAnalysis())

		cfg = &Config{ForecastsDir: "forecast_data", TopK: 5}
		assert.Error(t, cfg.ValidateForAnalysis())
	})

	t.Run("fetch needs a directory and concurrency", func(t *testing.T) {
		cfg := &Config{StoriesDir: "stories", FetchConcurrency: 20}
		assert.NoError(t, cfg.ValidateForFetch())

		cfg.FetchConcurrency = 0
		assert.Error(t, cfg.ValidateForFetch())
	})

	t.Run("database path required", func(t *testing.T) {
		cfg := &Config{}
		assert.Error(t, cfg.Validate())

		cfg.DatabasePath = "data/storycast.db"
		assert.NoError(t, cfg.Validate())
	})
}
