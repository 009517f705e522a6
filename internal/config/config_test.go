package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":memory:", cfg.DB.Path)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "criagil.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  path: board.db
transport:
  mode: http
seed:
  enabled: false
`), 0o600))

	t.Setenv("CRIAGIL_CONFIG_PATH", path)
	t.Setenv("CRIAGIL_DB_PATH", "override.db")
	t.Setenv("CRIAGIL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "override.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, TransportHTTP, cfg.Transport.Mode)
	assert.False(t, cfg.Seed.Enabled)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CRIAGIL_SERVER_PORT=7070\nCRIAGIL_SEED=false\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CRIAGIL_SERVER_PORT")
		os.Unsetenv("CRIAGIL_SEED")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.False(t, cfg.Seed.Enabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "CRIAGIL_SERVER_PORT", "eighty"},
		{"seed", "CRIAGIL_SEED", "maybe"},
		{"transport", "CRIAGIL_TRANSPORT", "carrier-pigeon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CRIAGIL_CONFIG_PATH", "/nonexistent/criagil.yaml")
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
