package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join(".", "messages", "inbox"), cfg.InboxDir())
	assert.Equal(t, filepath.Join(".", "messages", "autofill_information.json"), cfg.AutofillPath())
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
export_root: /data/facebook
max_title_length: 40
timezone: Europe/London
log:
  level: debug
`), 0644))

	t.Setenv("MSTATS_WORD_LIMIT", "20")
	t.Setenv("MSTATS_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/facebook", cfg.ExportRoot)
	assert.Equal(t, 40, cfg.MaxTitleLength)
	assert.Equal(t, 20, cfg.WordLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultAutofillKey, cfg.AutofillKey)
	assert.Equal(t, filepath.Join("/data/facebook", "messages", "inbox"), cfg.InboxDir())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", loc.String())
}

func TestLoadWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("messenger-stats.yaml", []byte("stopwords_file: words.txt\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "words.txt", cfg.StopwordsFile)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit file missing", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_title_length: 0\n"), 0644))

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("unknown timezone from env", func(t *testing.T) {
		t.Chdir(dir)
		t.Setenv("MSTATS_TIMEZONE", "Mars/Olympus")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty export root", func(c *Config) { c.ExportRoot = "" }, false},
		{"zero word limit", func(c *Config) { c.WordLimit = 0 }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"utc", func(c *Config) { c.Timezone = "UTC" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLocationLocal(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
