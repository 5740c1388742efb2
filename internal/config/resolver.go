package config

import (
	"os"
	"strings"

	"github.com/cspdashboard/shell/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is one configuration value together with where it came from
// and the lower-precedence values it shadows.
type ResolvedValue struct {
	Key      string
	Value    string
	Source   ConfigSource
	Shadowed map[ConfigSource]string
}

// ResolveOptions contains the candidate values for one key.
type ResolveOptions struct {
	// Key names the value in logs.
	Key string
	// FlagValue is the flag value (empty if not set).
	FlagValue string
	// EnvVar is the environment variable consulted (empty to skip).
	EnvVar string
	// ConfigValue is the value from the config file (empty if not set).
	ConfigValue string
	// DefaultValue is used when nothing else is set.
	DefaultValue string
}

// Resolve picks a value using precedence flag > env > config > default.
// When nothing is set and DefaultValue is empty, Value stays empty and
// Source is the zero value.
func Resolve(opts ResolveOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      opts.Key,
		Shadowed: make(map[ConfigSource]string),
	}

	var envValue string
	if opts.EnvVar != "" {
		envValue = os.Getenv(opts.EnvVar)
	}

	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, opts.FlagValue},
		{SourceEnv, envValue},
		{SourceConfig, opts.ConfigValue},
		{SourceDefault, opts.DefaultValue},
	}
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}

	return result
}

// ResolveAddress resolves the listen address:
// (1) --address flag, (2) CSP_ADDRESS env, (3) server.address, (4) ":8080".
func ResolveAddress(flagValue string, cfg *Config) ResolvedValue {
	return Resolve(ResolveOptions{
		Key:          "server.address",
		FlagValue:    flagValue,
		EnvVar:       EnvAddress,
		ConfigValue:  cfg.Server.Address,
		DefaultValue: DefaultAddress,
	})
}

// ResolvePluginDirs resolves the manifest directories:
// (1) --plugins-dir flags, (2) CSP_PLUGIN_DIRS env, (3) plugins.dirs.
// Lists are joined with commas for reporting and split again on return.
func ResolvePluginDirs(flagValues []string, cfg *Config) ([]string, ResolvedValue) {
	rv := Resolve(ResolveOptions{
		Key:         "plugins.dirs",
		FlagValue:   strings.Join(flagValues, ","),
		EnvVar:      EnvPluginDirs,
		ConfigValue: strings.Join(cfg.Plugins.Dirs, ","),
	})
	return splitList(rv.Value), rv
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CSP_CONFIG env, (3) ~/.csp/config.yaml default
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}

	return Resolve(ResolveOptions{
		Key:          "config",
		FlagValue:    flagValue,
		EnvVar:       EnvConfig,
		DefaultValue: paths.ConfigFile,
	}), nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values ...ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
