package main

import (
	"fmt"

	"github.com/abdulachik/storycast/internal/config"
	"github.com/abdulachik/storycast/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	validateResults   string
	validateForecasts string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the input files against their contracts",
	Long: `Check the ground-truth and forecast files before analysis:
answers must be the "yes"/"no" literals, probabilities must lie in [0,1],
question indices must be well-formed, and story tags should sit inside
the closed vocabulary.

Contract errors fail the command; warnings (unknown tags, forecasts with
no matching ground truth) are listed but tolerated since the scoring
engine excludes them.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateResults, "results", "", "Ground-truth results file (default from env)")
	validateCmd.Flags().StringVar(&validateForecasts, "forecasts", "", "Directory of forecast files (default from env)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if validateResults != "" {
		cfg.ResultsPath = validateResults
	}
	if validateForecasts != "" {
		cfg.ForecastsDir = validateForecasts
	}

	if err := cfg.ValidateForAnalysis(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	results, err := dataset.LoadResults(cfg.ResultsPath)
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}

	forecasts, err := loadForecastSets(cfg.ForecastsDir, nil)
	if err != nil {
		return err
	}

	issues := dataset.CheckResults(results)
	for _, model := range modelNames(forecasts) {
		issues = append(issues, dataset.CheckForecasts(model, forecasts[model], results)...)
	}

	if len(issues) == 0 {
		fmt.Printf("OK: %d stories, %d forecast sets, no issues\n", len(results), len(forecasts))
		return nil
	}

	for _, issue := range issues {
		fmt.Println(issue)
	}

	if dataset.HasErrors(issues) {
		return fmt.Errorf("input files violate the data contract")
	}

	fmt.Printf("\n%d warning(s), no contract errors\n", len(issues))
	return nil
}
