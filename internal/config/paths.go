package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for csp.
type Paths struct {
	// ConfigFile is the path to the config file (~/.csp/config.yaml).
	ConfigFile string

	// PluginsDir is the default directory for manifest files (~/.csp/plugins).
	PluginsDir string

	// HomeDir is the csp home directory (~/.csp).
	HomeDir string
}

// DefaultPaths returns the default paths for csp.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cspHome := filepath.Join(homeDir, ".csp")

	return &Paths{
		ConfigFile: filepath.Join(cspHome, "config.yaml"),
		PluginsDir: filepath.Join(cspHome, "plugins"),
		HomeDir:    cspHome,
	}, nil
}

// GetConfigFile returns the config file path.
// If CSP_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}

// ExpandPaths expands ~ in every path.
func ExpandPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		expanded, err := ExpandPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}
