package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")

		content := `
server:
  address: 127.0.0.1:9090
  readHeaderTimeout: 3s
  title: Support
plugins:
  dirs:
    - /srv/plugins
  remotes:
    - name: ciam
      url: https://ciam.example.com/manifest.json
  watch: true
  builtin: false
log:
  timestamps: false
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address)
		assert.Equal(t, 3*time.Second, cfg.Server.ReadHeaderTimeout)
		assert.Equal(t, "Support", cfg.Server.Title)
		assert.Equal(t, []string{"/srv/plugins"}, cfg.Plugins.Dirs)
		assert.Equal(t, []RemoteConfig{{Name: "ciam", URL: "https://ciam.example.com/manifest.json"}}, cfg.Plugins.Remotes)
		assert.True(t, cfg.Plugins.Watch)
		require.NotNil(t, cfg.Plugins.Builtin)
		assert.False(t, *cfg.Plugins.Builtin)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)
	})

	t.Run("returns empty config for missing file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "nonexistent.yaml")

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Empty(t, cfg.Server.Address)
		assert.Nil(t, cfg.Plugins.Builtin)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("plugins:\n  watch: false\n"), 0o644))

		t.Setenv(EnvWatch, "true")
		t.Setenv(EnvShutdownTimeout, "2s")

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.True(t, cfg.Plugins.Watch)
		assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("server: [unclosed"), 0o644))

		_, err := NewLoader().Load(configFile)
		assert.Error(t, err)
	})
}

func TestLoaderLoadWithDefaults(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server:\n  title: Portal\n"), 0o644))

	cfg, err := NewLoader().LoadWithDefaults(configFile)

	require.NoError(t, err)
	assert.Equal(t, "Portal", cfg.Server.Title)
	assert.Equal(t, DefaultAddress, cfg.Server.Address)
	assert.True(t, cfg.BuiltinEnabled())
}

func TestConfigFileExists(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0o644))

	ok, err := ConfigFileExists(existing)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ConfigFileExists(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, ok)
}
