package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "shell", cfg.Server.Layout)
	assert.Empty(t, cfg.Server.Title)
	assert.Empty(t, cfg.Plugins.Dirs)
	assert.False(t, cfg.Plugins.Watch)
	require.NotNil(t, cfg.Plugins.Builtin)
	assert.True(t, *cfg.Plugins.Builtin)
	require.NotNil(t, cfg.Log.Timestamps)
	assert.True(t, *cfg.Log.Timestamps)
}

func TestWithDefaults_KeepsSetValues(t *testing.T) {
	off := false
	cfg := &Config{
		Server:  ServerConfig{Address: "127.0.0.1:9000", Layout: "minimal"},
		Plugins: PluginsConfig{Dirs: []string{"/plugins"}, Builtin: &off},
	}

	out := cfg.WithDefaults()

	assert.Equal(t, "127.0.0.1:9000", out.Server.Address)
	assert.Equal(t, "minimal", out.Server.Layout)
	assert.False(t, out.BuiltinEnabled())
	assert.Equal(t, []string{"/plugins"}, out.Plugins.Dirs)

	// The receiver is not modified.
	assert.Zero(t, cfg.Server.ReadHeaderTimeout)
	out.Plugins.Dirs[0] = "/changed"
	assert.Equal(t, "/plugins", cfg.Plugins.Dirs[0])
}

func TestBuiltinEnabled_DefaultsToTrue(t *testing.T) {
	assert.True(t, (&Config{}).BuiltinEnabled())
}

func TestDefaultConfigTemplate(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate), &doc))

	v, err := NewValidator()
	require.NoError(t, err)
	assert.NoError(t, v.ValidateSchema([]byte(DefaultConfigTemplate), "config.yaml"))
}
