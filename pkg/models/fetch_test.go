package models_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glean-tools/glean/pkg/models"
)

func catalogJSON(t *testing.T, ids ...string) []byte {
	t.Helper()

	entries := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, map[string]any{"id": id})
	}

	raw, err := json.Marshal(map[string]any{"data": entries})
	require.NoError(t, err)

	return raw
}

func modelIDs(catalog []models.Model) []string {
	ids := make([]string, 0, len(catalog))
	for _, m := range catalog {
		ids = append(ids, m.ID)
	}

	return ids
}

func newFetcher(t *testing.T, handler http.HandlerFunc) (*models.Fetcher, *[]string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var warnings []string

	f := models.NewFetcher()
	f.URL = srv.URL
	f.CachePath = filepath.Join(t.TempDir(), "models_cache.json")
	f.Logf = func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	return f, &warnings
}

func writeCache(t *testing.T, f *models.Fetcher, raw []byte, age time.Duration) {
	t.Helper()

	require.NoError(t, os.WriteFile(f.CachePath, raw, 0o600))

	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(f.CachePath, mtime, mtime))
}

func TestModelsFreshCacheSkipsNetwork(t *testing.T) {
	f, _ := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call with a fresh cache")
	})
	writeCache(t, f, catalogJSON(t, "cached/model"), 5*time.Hour+59*time.Minute)

	catalog, err := f.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cached/model"}, modelIDs(catalog))
}

func TestModelsStaleCacheTriggersFetch(t *testing.T) {
	f, _ := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(catalogJSON(t, "fresh/model"))
	})
	writeCache(t, f, catalogJSON(t, "cached/model"), 6*time.Hour+time.Minute)

	catalog, err := f.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh/model"}, modelIDs(catalog))

	// The cache file is overwritten with the fetched payload.
	raw, err := os.ReadFile(f.CachePath)
	require.NoError(t, err)
	assert.Equal(t, catalogJSON(t, "fresh/model"), raw)
}

func TestModelsFetchFailureServesStaleCache(t *testing.T) {
	f, warnings := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusInternalServerError)
	})
	writeCache(t, f, catalogJSON(t, "cached/model"), 100*time.Hour)

	catalog, err := f.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cached/model"}, modelIDs(catalog))

	require.Len(t, *warnings, 1)
	assert.Contains(t, (*warnings)[0], "cached")
}

func TestModelsFetchFailureWithoutCache(t *testing.T) {
	f, _ := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusInternalServerError)
	})

	_, err := f.Models(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestModelsCorruptCacheDoesNotMaskFetchError(t *testing.T) {
	f, _ := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusInternalServerError)
	})
	writeCache(t, f, []byte("{not json"), 100*time.Hour)

	_, err := f.Models(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestModelsCorruptFreshCacheFallsThroughToFetch(t *testing.T) {
	f, _ := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(catalogJSON(t, "fresh/model"))
	})
	writeCache(t, f, []byte("{not json"), time.Minute)

	catalog, err := f.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh/model"}, modelIDs(catalog))
}

func TestModelsBareArrayResponse(t *testing.T) {
	f, _ := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "bare/model"}]`))
	})

	catalog, err := f.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bare/model"}, modelIDs(catalog))
}

func TestModelsCacheWriteFailureIsSwallowed(t *testing.T) {
	f, warnings := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(catalogJSON(t, "fresh/model"))
	})
	// Point the cache at a path whose parent does not exist.
	f.CachePath = filepath.Join(t.TempDir(), "missing", "models_cache.json")

	catalog, err := f.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh/model"}, modelIDs(catalog))

	require.Len(t, *warnings, 1)
	assert.Contains(t, (*warnings)[0], "cache")
}
