package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables read by csp.
const (
	envPrefix = "CSP"

	EnvConfig            = "CSP_CONFIG"
	EnvAddress           = "CSP_ADDRESS"
	EnvPluginDirs        = "CSP_PLUGIN_DIRS"
	EnvWatch             = "CSP_WATCH"
	EnvBuiltin           = "CSP_BUILTIN"
	EnvReadHeaderTimeout = "CSP_READ_HEADER_TIMEOUT"
	EnvShutdownTimeout   = "CSP_SHUTDOWN_TIMEOUT"
	EnvLogTimestamps     = "CSP_LOG_TIMESTAMPS"
)

// Loader handles loading configuration from the config file and the
// environment. The listen address and plugin directories are not bound here:
// they go through the resolver so their source can be reported.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("server.readHeaderTimeout", EnvReadHeaderTimeout)
	_ = v.BindEnv("server.shutdownTimeout", EnvShutdownTimeout)
	_ = v.BindEnv("plugins.watch", EnvWatch)
	_ = v.BindEnv("plugins.builtin", EnvBuiltin)
	_ = v.BindEnv("log.timestamps", EnvLogTimestamps)

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path. A missing
// file is not an error. Bound environment variables take precedence over
// file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}

	return cfg.WithDefaults(), nil
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
