package main

import (
	"fmt"

	"github.com/abdulachik/storycast/internal/config"
	"github.com/abdulachik/storycast/internal/dataset"
	"github.com/abdulachik/storycast/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	rankResults   string
	rankForecasts string
	rankModels    []string
	rankTopK      int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank stories by predictability",
	Long: `Print the most and least predictable stories by average log score.

Examples:
  storycast rank
  storycast rank --model gemini-2.0-flash --top 10`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankResults, "results", "", "Ground-truth results file (default from env)")
	rankCmd.Flags().StringVar(&rankForecasts, "forecasts", "", "Directory of forecast files (default from env)")
	rankCmd.Flags().StringArrayVar(&rankModels, "model", nil, "Model to include (repeatable, default all)")
	rankCmd.Flags().IntVar(&rankTopK, "top", 0, "Stories per ranking direction (default from env)")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rankResults != "" {
		cfg.ResultsPath = rankResults
	}
	if rankForecasts != "" {
		cfg.ForecastsDir = rankForecasts
	}
	if rankTopK > 0 {
		cfg.TopK = rankTopK
	}

	if err := cfg.ValidateForAnalysis(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	results, err := dataset.LoadResults(cfg.ResultsPath)
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}

	forecasts, err := loadForecastSets(cfg.ForecastsDir, rankModels)
	if err != nil {
		return err
	}

	rep, err := scoring.Analyze(results, forecasts)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	most, least := scoring.Rank(rep.StoryAvgScores, cfg.TopK)

	fmt.Printf("===== %d MOST PREDICTABLE STORIES =====\n", len(most))
	printRanking(rep, most)

	fmt.Printf("\n===== %d LEAST PREDICTABLE STORIES =====\n", len(least))
	printRanking(rep, least)

	return nil
}

func printRanking(rep *scoring.Report, ranked []scoring.RankedStory) {
	fmt.Printf("%-10s %-10s %s\n", "Story ID", "Log Score", "Story Title")
	fmt.Println("------------------------------------------------------------")
	for _, rs := range ranked {
		fmt.Printf("%-10s %-10.4f %s\n", rs.StoryID, rs.Score, rep.StoryTitles[rs.StoryID])
	}
}
