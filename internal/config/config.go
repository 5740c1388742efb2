// Package config provides configuration loading and management.
package config

import (
	"time"

	"github.com/cspdashboard/shell/internal/templates"
)

// Default values applied by WithDefaults.
const (
	DefaultAddress           = ":8080"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
)

// ServerConfig contains the shell server settings.
type ServerConfig struct {
	// Address is the listen address.
	// Env: CSP_ADDRESS, Default: ":8080"
	Address string `json:"address,omitempty" yaml:"address,omitempty" mapstructure:"address"`

	// ReadHeaderTimeout bounds how long the server waits for request headers.
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout,omitempty" yaml:"readHeaderTimeout,omitempty" mapstructure:"readHeaderTimeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty" mapstructure:"shutdownTimeout"`

	// Title is shown in the layout header and the page title.
	Title string `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`

	// Layout names the embedded page layout. Default: "shell"
	Layout string `json:"layout,omitempty" yaml:"layout,omitempty" mapstructure:"layout"`
}

// RemoteConfig names a remote plugin server.
type RemoteConfig struct {
	// Name identifies the remote in logs and errors.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// URL is where the remote's manifest document is served.
	URL string `json:"url" yaml:"url" mapstructure:"url"`
}

// PluginsConfig contains the plugin source settings.
type PluginsConfig struct {
	// Dirs lists directories of manifest files.
	// Env: CSP_PLUGIN_DIRS (comma separated)
	Dirs []string `json:"dirs,omitempty" yaml:"dirs,omitempty" mapstructure:"dirs"`

	// Remotes lists remote plugin servers.
	Remotes []RemoteConfig `json:"remotes,omitempty" yaml:"remotes,omitempty" mapstructure:"remotes"`

	// Watch re-registers manifest files when they change.
	// Env: CSP_WATCH, Default: false
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty" mapstructure:"watch"`

	// Builtin registers the compiled-in plugins.
	// Env: CSP_BUILTIN, Default: true
	Builtin *bool `json:"builtin,omitempty" yaml:"builtin,omitempty" mapstructure:"builtin"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" yaml:"timestamps,omitempty" mapstructure:"timestamps"`
}

// Config represents the csp configuration.
// Loaded from ~/.csp/config.yaml, validated against the embedded CUE schema.
type Config struct {
	Server  ServerConfig  `json:"server,omitempty" yaml:"server,omitempty" mapstructure:"server"`
	Plugins PluginsConfig `json:"plugins,omitempty" yaml:"plugins,omitempty" mapstructure:"plugins"`
	Log     LogConfig     `json:"log,omitempty" yaml:"log,omitempty" mapstructure:"log"`
}

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	return (&Config{}).WithDefaults()
}

// WithDefaults returns a copy of c with every unset field given its default.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.Server.Address == "" {
		out.Server.Address = DefaultAddress
	}
	if out.Server.ReadHeaderTimeout == 0 {
		out.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if out.Server.ShutdownTimeout == 0 {
		out.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if out.Server.Layout == "" {
		out.Server.Layout = templates.GetDefault().Name
	}
	if out.Plugins.Builtin == nil {
		builtin := true
		out.Plugins.Builtin = &builtin
	}
	if out.Log.Timestamps == nil {
		timestamps := true
		out.Log.Timestamps = &timestamps
	}
	out.Plugins.Dirs = append([]string(nil), c.Plugins.Dirs...)
	out.Plugins.Remotes = append([]RemoteConfig(nil), c.Plugins.Remotes...)
	return &out
}

// BuiltinEnabled reports whether compiled-in plugins should be registered.
func (c *Config) BuiltinEnabled() bool {
	return c.Plugins.Builtin == nil || *c.Plugins.Builtin
}

// DefaultConfigTemplate is written by `csp config init`.
const DefaultConfigTemplate = `# csp configuration
# Values here are overridden by CSP_* environment variables and by flags.

server:
  address: ":8080"
  readHeaderTimeout: 10s
  shutdownTimeout: 15s
  # title: Customer Support Portal
  # layout: shell

plugins:
  # Directories of plugin manifest files (.yaml, .yml, .json, .cue).
  dirs: []
  # Remote plugin servers serving a manifest document.
  # remotes:
  #   - name: ciam
  #     url: https://ciam.example.com/manifest.json
  remotes: []
  watch: false
  builtin: true

log:
  timestamps: true
`
