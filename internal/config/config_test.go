package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "*.csv", cfg.Watch.Pattern)
	assert.Equal(t, 1, cfg.ItemCheck.DefaultQuantity)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
api:
  base_url: http://file.example/prod
  timeout: 5s
poll:
  interval: 500ms
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Setenv("ANALYZER_API_URL", "http://env.example/prod")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example/prod", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Poll.Interval)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		API:  APIConfig{BaseURL: "http://x", Timeout: time.Second},
		Poll: PollConfig{Interval: 0},
	}
	assert.Error(t, cfg.Validate())

	cfg.Poll.Interval = time.Second
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.ItemCheck.DefaultQuantity)

	cfg.API.BaseURL = "  "
	assert.Error(t, cfg.Validate())
}
