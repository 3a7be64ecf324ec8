package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_TOML(t *testing.T) {
	path := write(t, "richbridge.toml", `
log_level = "debug"

[element]
formats = ["bold", "list"]
theme = "bubble"
read_only = true

[store]
path = "/tmp/docs.db"
document = "notes"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"bold", "list"}, cfg.Element.Formats)
	assert.Equal(t, "bubble", cfg.Element.Theme)
	assert.True(t, cfg.Element.ReadOnly)
	assert.Equal(t, "Compose an epic...", cfg.Element.Placeholder, "unset fields keep defaults")
	assert.Equal(t, StoreConfig{Path: "/tmp/docs.db", Document: "notes"}, cfg.Store)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "richbridge.yml", `
element:
  placeholder: Write here
watch:
  enabled: true
  debounce: 250ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Write here", cfg.Element.Placeholder)
	assert.Equal(t, "snow", cfg.Element.Theme)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(write(t, "richbridge.json", `{}`))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	cfg, err := Load(write(t, "bad.toml", `[element`))
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLevel_UnknownIsInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "chatty"}.Level())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.Level())
}
