package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultURL is OpenRouter's public, unauthenticated catalog endpoint.
	DefaultURL = "https://openrouter.ai/api/v1/models"

	// DefaultTTL is the freshness window of the on-disk cache.
	DefaultTTL = 6 * time.Hour

	cacheFile = "glean_models_cache.json"
)

// Fetcher retrieves the model catalog, serving a cached copy while it is
// fresh and falling back to a stale copy when the network is unavailable.
// Concurrent processes may race on the cache file; last writer wins, which is
// fine for a disposable cache.
type Fetcher struct {
	URL       string
	CachePath string
	TTL       time.Duration
	Client    *http.Client

	// Logf reports non-fatal degradations (stale data served, cache write
	// failed). Nil means stderr.
	Logf func(format string, args ...any)
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		URL:       DefaultURL,
		CachePath: filepath.Join(os.TempDir(), cacheFile),
		TTL:       DefaultTTL,
		Client:    http.DefaultClient,
	}
}

func (f *Fetcher) logf(format string, args ...any) {
	if f.Logf != nil {
		f.Logf(format, args...)
		return
	}

	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// Models returns the catalog. A fresh cache is served without a network
// call; otherwise the endpoint is fetched and the cache rewritten. When the
// fetch fails, a cache of any age is served with a warning, and the fetch
// error propagates only if no readable cache exists.
func (f *Fetcher) Models(ctx context.Context) ([]Model, error) {
	if cached, err := f.readCache(f.TTL); err == nil {
		return cached, nil
	}

	fetched, raw, err := f.fetch(ctx)
	if err != nil {
		if cached, cerr := f.readCache(0); cerr == nil {
			f.logf("could not refresh model list (%v), using cached data", err)
			return cached, nil
		}

		return nil, err
	}

	if werr := os.WriteFile(f.CachePath, raw, 0o600); werr != nil {
		f.logf("could not write model cache: %v", werr)
	}

	return fetched, nil
}

// readCache loads and parses the cache file. A non-zero maxAge rejects files
// at or beyond that age; zero accepts any age.
func (f *Fetcher) readCache(maxAge time.Duration) ([]Model, error) {
	info, err := os.Stat(f.CachePath)
	if err != nil {
		return nil, err
	}

	if maxAge > 0 && time.Since(info.ModTime()) >= maxAge {
		return nil, fmt.Errorf("model cache is older than %s", maxAge)
	}

	raw, err := os.ReadFile(f.CachePath)
	if err != nil {
		return nil, err
	}

	return parseCatalog(raw)
}

func (f *Fetcher) fetch(ctx context.Context) ([]Model, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("building catalog request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching model catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetching model catalog: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading catalog response: %w", err)
	}

	parsed, err := parseCatalog(raw)
	if err != nil {
		return nil, nil, err
	}

	return parsed, raw, nil
}
