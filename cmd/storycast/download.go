package main

import (
	"fmt"
	"sort"

	"github.com/abdulachik/storycast/internal/config"
	"github.com/abdulachik/storycast/internal/dataset"
	"github.com/abdulachik/storycast/internal/fetch"
	"github.com/spf13/cobra"
)

var (
	downloadForce       bool
	downloadDir         string
	downloadFromResults bool
	downloadConcurrency int
)

var downloadCmd = &cobra.Command{
	Use:   "download [id...]",
	Short: "Download story texts from Project Gutenberg",
	Long: `Download story texts by Gutenberg id into the stories directory.
At most FETCH_CONCURRENCY downloads are in flight at once.

Examples:
  storycast download 17530 23218
  storycast download --from-results        # every story id in results.json`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().BoolVarP(&downloadForce, "force", "f", false, "Re-download even if file exists")
	downloadCmd.Flags().StringVar(&downloadDir, "dir", "", "Directory to save texts (default from env)")
	downloadCmd.Flags().BoolVar(&downloadFromResults, "from-results", false, "Download every story id in the results file")
	downloadCmd.Flags().IntVar(&downloadConcurrency, "concurrency", 0, "Max downloads in flight (default from env)")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if downloadDir != "" {
		cfg.StoriesDir = downloadDir
	}
	if downloadConcurrency > 0 {
		cfg.FetchConcurrency = downloadConcurrency
	}

	if err := cfg.ValidateForFetch(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	ids := args
	if downloadFromResults {
		if len(ids) > 0 {
			return fmt.Errorf("pass ids or --from-results, not both")
		}

		results, err := dataset.LoadResults(cfg.ResultsPath)
		if err != nil {
			return fmt.Errorf("load results: %w", err)
		}
		for id := range results {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}

	if len(ids) == 0 {
		return fmt.Errorf("no story ids given (pass ids or --from-results)")
	}

	fetcher := fetch.New(fetch.Config{
		BaseURL:     cfg.GutenbergBaseURL,
		Concurrency: cfg.FetchConcurrency,
	})

	fmt.Printf("Downloading %d story texts to %s/...\n", len(ids), cfg.StoriesDir)

	summary, err := fetcher.FetchAll(cmd.Context(), ids, cfg.StoriesDir, downloadForce)
	if err != nil {
		return fmt.Errorf("fetch stories: %w", err)
	}

	fmt.Printf("Downloaded: %d, Skipped: %d, Failed: %d\n",
		summary.Downloaded, summary.Skipped, summary.Failed)

	return nil
}
