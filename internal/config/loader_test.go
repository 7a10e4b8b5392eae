package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sprintfang/internal/burndown"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultMaxUploadMB, cfg.Server.MaxUploadMB)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, burndown.DefaultDoneStatuses, cfg.DoneStatuses)
	assert.Empty(t, cfg.OTLP.Endpoint)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `
data_dir: /var/lib/sprintfang
done_statuses:
  - done
  - shipped
server:
  port: 8080
log:
  level: debug
  json: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "/var/lib/sprintfang", cfg.DataDir)
	assert.Equal(t, []string{"done", "shipped"}, cfg.DoneStatuses)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)

	// Unset keys keep their defaults.
	assert.Equal(t, DefaultMaxUploadMB, cfg.Server.MaxUploadMB)
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o644))

	_, err := LoadConfig(path)

	assert.ErrorIs(t, err, ErrInvalidPort)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SPRINTFANG_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}
