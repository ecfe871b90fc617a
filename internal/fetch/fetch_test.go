package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAll(t *testing.T) {
	t.Run("downloads texts by id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSuffix(filepath.Base(r.URL.Path), ".txt")
			fmt.Fprintf(w, "story %s", strings.TrimPrefix(id, "pg"))
		}))
		defer srv.Close()

		dir := t.TempDir()
		fetcher := New(Config{BaseURL: srv.URL, Concurrency: 4})

		summary, err := fetcher.FetchAll(context.Background(), []string{"1", "2", "3"}, dir, false)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Downloaded)
		assert.Equal(t, 0, summary.Skipped)
		assert.Equal(t, 0, summary.Failed)

		data, err := os.ReadFile(PathFor(dir, "2"))
		require.NoError(t, err)
		assert.Equal(t, "story 2", string(data))
	})

	t.Run("bounds requests in flight", func(t *testing.T) {
		var inflight, peak int64
		var mu sync.Mutex

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt64(&inflight, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			defer atomic.AddInt64(&inflight, -1)

			fmt.Fprint(w, "text")
		}))
		defer srv.Close()

		fetcher := New(Config{BaseURL: srv.URL, Concurrency: 2})

		ids := make([]string, 20)
		for i := range ids {
			ids[i] = fmt.Sprintf("%d", i)
		}

		summary, err := fetcher.FetchAll(context.Background(), ids, t.TempDir(), false)
		require.NoError(t, err)
		assert.Equal(t, 20, summary.Downloaded)

		mu.Lock()
		defer mu.Unlock()
		assert.LessOrEqual(t, peak, int64(2))
	})

	t.Run("skips existing files unless forced", func(t *testing.T) {
		var requests int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt64(&requests, 1)
			fmt.Fprint(w, "fresh")
		}))
		defer srv.Close()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(PathFor(dir, "5"), []byte("stale"), 0644))

		fetcher := New(Config{BaseURL: srv.URL})

		summary, err := fetcher.FetchAll(context.Background(), []string{"5"}, dir, false)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, int64(0), atomic.LoadInt64(&requests))

		summary, err = fetcher.FetchAll(context.Background(), []string{"5"}, dir, true)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Downloaded)

		data, err := os.ReadFile(PathFor(dir, "5"))
		require.NoError(t, err)
		assert.Equal(t, "fresh", string(data))
	})

	t.Run("counts failures without aborting the batch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "pg404") {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, "text")
		}))
		defer srv.Close()

		fetcher := New(Config{BaseURL: srv.URL})

		summary, err := fetcher.FetchAll(context.Background(), []string{"1", "404", "2"}, t.TempDir(), false)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Downloaded)
		assert.Equal(t, 1, summary.Failed)
	})
}

func TestURLFor(t *testing.T) {
	fetcher := New(Config{})
	assert.Equal(t,
		"https://www.gutenberg.org/cache/epub/17530/pg17530.txt",
		fetcher.URLFor("17530"),
	)
}
