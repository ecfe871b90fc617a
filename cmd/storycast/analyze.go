package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdulachik/storycast/internal/config"
	"github.com/abdulachik/storycast/internal/dataset"
	"github.com/abdulachik/storycast/internal/db"
	"github.com/abdulachik/storycast/internal/report"
	"github.com/abdulachik/storycast/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	analyzeResults   string
	analyzeForecasts string
	analyzeModels    []string
	analyzeTopK      int
	analyzeJSONPath  string
	analyzeSave      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score forecasts and print the aggregate report",
	Long: `Score every forecast against the ground truth and print per-model,
per-story, and per-tag average log scores.

Stories flagged with an error, or missing from any model's forecast set,
are excluded from all aggregates. The per-story averages pool the scores
of every loaded model; pass --model to restrict the run to one model.

Examples:
  storycast analyze
  storycast analyze --model gemini-2.0-flash --top 10
  storycast analyze --json report.json --save`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeResults, "results", "", "Ground-truth results file (default from env)")
	analyzeCmd.Flags().StringVar(&analyzeForecasts, "forecasts", "", "Directory of forecast files (default from env)")
	analyzeCmd.Flags().StringArrayVar(&analyzeModels, "model", nil, "Model to include (repeatable, default all)")
	analyzeCmd.Flags().IntVar(&analyzeTopK, "top", 0, "Stories per ranking direction (default from env)")
	analyzeCmd.Flags().StringVar(&analyzeJSONPath, "json", "", "Also write the structured report to this path")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Persist the run to the database")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyAnalyzeOverrides(cfg)

	if err := cfg.ValidateForAnalysis(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	results, err := dataset.LoadResults(cfg.ResultsPath)
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}

	forecasts, err := loadForecastSets(cfg.ForecastsDir, analyzeModels)
	if err != nil {
		return err
	}

	slog.Info("analyzing forecasts",
		"stories", len(results),
		"models", modelNames(forecasts),
	)

	rep, err := scoring.Analyze(results, forecasts)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	most, least := scoring.Rank(rep.StoryAvgScores, cfg.TopK)

	fmt.Print(report.Render(rep, most, least))

	if analyzeJSONPath != "" {
		if err := report.WriteJSON(analyzeJSONPath, report.NewDocument(rep, most, least)); err != nil {
			return err
		}
		fmt.Printf("\nStructured report written to %s\n", analyzeJSONPath)
	}

	if analyzeSave {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}

		store, err := db.NewStore(ctx, cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		runID, err := store.SaveRun(ctx, cfg.ResultsPath, rep)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}

		fmt.Printf("\nSaved as run %d\n", runID)
	}

	return nil
}

func applyAnalyzeOverrides(cfg *config.Config) {
	if analyzeResults != "" {
		cfg.ResultsPath = analyzeResults
	}
	if analyzeForecasts != "" {
		cfg.ForecastsDir = analyzeForecasts
	}
	if analyzeTopK > 0 {
		cfg.TopK = analyzeTopK
	}
}
