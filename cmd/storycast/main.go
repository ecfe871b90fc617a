package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storycast",
	Short: "Forecast scoring for public-domain short stories",
	Long: `Storycast scores probabilistic forecasts of short-story outcomes
against ground-truth answers using the log scoring rule, and aggregates
the scores per story, per model, and per tag.`,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	// Set up logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
