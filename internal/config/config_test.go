package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8000/api", cfg.Backend.URL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
	assert.Equal(t, "/nonexistent/path/config.yaml", cfg.Path())
}

func TestLoad_WithConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `backend:
  url: https://flows.example.com/api
  timeout: 5s
output: json
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	cfg, err := Load(configPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://flows.example.com/api", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("backend: [unterminated"), 0600))

	_, err := Load(configPath, nil)
	assert.Error(t, err)
}

func TestLoad_WithEnvironmentOverrides(t *testing.T) {
	t.Setenv("FLOWSEARCH_BACKEND_URL", "http://env-backend:9000/api")
	t.Setenv("FLOWSEARCH_OUTPUT", "yaml")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "http://env-backend:9000/api", cfg.Backend.URL)
	assert.Equal(t, "yaml", cfg.Output)
}

func TestLoad_DefaultPathFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLOWSEARCH_CONFIG_DIR", dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Path())
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FLOWSEARCH_BACKEND_URL", "http://env-backend:9000/api")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("url", "", "")
	flags.String("output", "table", "")
	require.NoError(t, flags.Parse([]string{"--url", "http://flag-backend/api"}))

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), flags)
	require.NoError(t, err)

	assert.Equal(t, "http://flag-backend/api", cfg.Backend.URL)
	assert.Equal(t, "table", cfg.Output)
}

func TestLoad_InvalidOutput(t *testing.T) {
	t.Setenv("FLOWSEARCH_OUTPUT", "xml")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestSave(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".flowsearch", "config.yaml")

	cfg := Default()
	cfg.path = configPath
	require.NoError(t, cfg.SetBackendURL(" http://saved-backend:8000/api/ "))

	assert.FileExists(t, configPath)
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 30s")

	dirInfo, err := os.Stat(filepath.Dir(configPath))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())

	loaded, err := Load(configPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://saved-backend:8000/api", loaded.Backend.URL)
	assert.Equal(t, 30*time.Second, loaded.Backend.Timeout)
}

func TestSetBackendURL_Empty(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.SetBackendURL("   "))
}
