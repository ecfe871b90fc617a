// Package fetch downloads public-domain story texts from Project Gutenberg
// with a bounded number of requests in flight.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	defaultBaseURL     = "https://www.gutenberg.org"
	defaultConcurrency = 20
)

// Fetcher downloads story texts by Gutenberg id.
type Fetcher struct {
	client      *http.Client
	baseURL     string
	concurrency int
}

// Config holds configuration for the fetcher.
type Config struct {
	BaseURL     string
	Client      *http.Client
	Concurrency int
}

// New creates a new Fetcher.
func New(cfg Config) *Fetcher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Fetcher{
		client:      client,
		baseURL:     baseURL,
		concurrency: concurrency,
	}
}

// Summary counts the outcomes of one FetchAll batch.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// URLFor returns the plain-text URL for a Gutenberg id.
func (f *Fetcher) URLFor(id string) string {
	return fmt.Sprintf("%s/cache/epub/%s/pg%s.txt", f.baseURL, id, id)
}

// PathFor returns the local path a story text is saved to.
func PathFor(dir, id string) string {
	return filepath.Join(dir, "pg"+id+".txt")
}

// FetchAll downloads the texts for the given ids into dir. At most
// the configured number of requests are in flight at once; results are
// collected as they complete with no ordering guarantee. Individual
// failures are logged and counted but never abort the batch. Existing
// files are skipped unless force is set.
func (f *Fetcher) FetchAll(ctx context.Context, ids []string, dir string, force bool) (Summary, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Summary{}, fmt.Errorf("create stories directory: %w", err)
	}

	var (
		summary Summary
		mu      sync.Mutex
		wg      sync.WaitGroup
	)

	gate := make(chan struct{}, f.concurrency)

	for _, id := range ids {
		path := PathFor(dir, id)

		if !force {
			if _, err := os.Stat(path); err == nil {
				summary.Skipped++
				continue
			}
		}

		wg.Add(1)
		go func(id, path string) {
			defer wg.Done()

			gate <- struct{}{}
			defer func() { <-gate }()

			if err := f.fetchOne(ctx, id, path); err != nil {
				slog.Error("failed to fetch story", "id", id, "error", err)
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				return
			}

			slog.Debug("fetched story", "id", id, "path", path)
			mu.Lock()
			summary.Downloaded++
			mu.Unlock()
		}(id, path)
	}

	wg.Wait()

	return summary, ctx.Err()
}

func (f *Fetcher) fetchOne(ctx context.Context, id, path string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", f.URLFor(id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
