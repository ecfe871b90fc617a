package main

import (
	"context"
	"fmt"

	"github.com/abdulachik/storycast/internal/config"
	"github.com/abdulachik/storycast/internal/db"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRunID int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show saved analysis runs",
	Long: `List analysis runs saved with 'analyze --save', or show the
aggregates of one run.

Examples:
  storycast history
  storycast history --run 3`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Max runs to list")
	historyCmd.Flags().Int64Var(&historyRunID, "run", 0, "Show details for one run")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

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

	if historyRunID > 0 {
		return showRun(ctx, store, historyRunID)
	}

	runs, err := store.ListRuns(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No saved runs. Use 'storycast analyze --save' to record one.")
		return nil
	}

	fmt.Printf("%-5s %-20s %-8s %-10s %s\n", "RUN", "CREATED", "STORIES", "QUESTIONS", "RESULTS")
	for _, run := range runs {
		fmt.Printf("%-5d %-20s %-8d %-10d %s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.StoryCount,
			run.QuestionCount,
			run.ResultsPath,
		)
	}

	return nil
}

func showRun(ctx context.Context, store *db.Store, runID int64) error {
	modelScores, err := store.GetModelScores(ctx, runID)
	if err != nil {
		return fmt.Errorf("get model scores: %w", err)
	}

	if len(modelScores) == 0 {
		return fmt.Errorf("run %d not found", runID)
	}

	fmt.Printf("=== Run %d ===\n\n", runID)

	fmt.Println("Average Log Score by Model:")
	for _, ms := range modelScores {
		fmt.Printf("  %s: %.4f (%d questions)\n", ms.Model, ms.AvgScore, ms.QuestionCount)
	}

	storyScores, err := store.GetStoryScores(ctx, runID)
	if err != nil {
		return fmt.Errorf("get story scores: %w", err)
	}

	fmt.Printf("\nStories (%d, best first):\n", len(storyScores))
	for _, ss := range storyScores {
		fmt.Printf("  %-10s %-10.4f %s\n", ss.StoryID, ss.AvgScore, ss.Title)
	}

	tagScores, err := store.GetTagScores(ctx, runID)
	if err != nil {
		return fmt.Errorf("get tag scores: %w", err)
	}

	if len(tagScores) > 0 {
		fmt.Println("\nAverage Log Score by Tag:")
		for _, ts := range tagScores {
			fmt.Printf("  %s: %.4f\n", ts.Tag, ts.AvgScore)
		}
	}

	return nil
}
