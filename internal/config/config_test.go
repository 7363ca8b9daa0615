package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolated keeps Load away from the working directory's files.
func isolated(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{SearchPaths: []string{dir}, EnvFile: filepath.Join(dir, ".env")}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(isolated(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_FileFromSearchPath(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.SearchPaths[0], "estate.yaml"), `
catalog:
  path: /data/listings.db
log:
  level: debug
search:
  cache_ttl: 30s
`)

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "/data/listings.db", cfg.Catalog.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Search.CacheTTL)
	assert.Equal(t, int64(256), cfg.Search.CacheSize, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.SearchPaths[0], "estate.yaml"), "display:\n  currency: GBP\n")
	t.Setenv("ESTATE_DISPLAY_CURRENCY", "EUR")
	t.Setenv("ESTATE_SEARCH_CACHE_SIZE", "12")

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Display.Currency)
	assert.Equal(t, int64(12), cfg.Search.CacheSize)
}

func TestLoad_EnvFile(t *testing.T) {
	opts := isolated(t)
	writeFile(t, opts.EnvFile, "ESTATE_LOG_FORMAT=json\n")
	t.Cleanup(func() { os.Unsetenv("ESTATE_LOG_FORMAT") })

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	opts := isolated(t)
	opts.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Load(opts)
	var ce *Error
	require.True(t, errors.As(err, &ce))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		key  string
	}{
		{"cache size", "search:\n  cache_size: 0\n", "search.cache_size"},
		{"cache ttl", "search:\n  cache_ttl: -1s\n", "search.cache_ttl"},
		{"log format", "log:\n  format: xml\n", "log.format"},
		{"currency", "display:\n  currency: RUPEES\n", "display.currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := isolated(t)
			opts.ConfigFile = filepath.Join(t.TempDir(), "estate.yaml")
			writeFile(t, opts.ConfigFile, tt.yaml)

			_, err := Load(opts)
			var ce *Error
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.key, ce.Key)
		})
	}
}
