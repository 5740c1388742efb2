package cmd

import (
	"context"
	"fmt"

	"github.com/cspdashboard/shell/internal/builtin"
	"github.com/cspdashboard/shell/internal/config"
	"github.com/cspdashboard/shell/internal/manifest"
	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/plugin"
	"github.com/cspdashboard/shell/internal/remote"
	"github.com/cspdashboard/shell/internal/shell"
)

// pluginSources holds the loaders described by the configuration.
type pluginSources struct {
	loaders []plugin.Loader
	dirs    []string
	builder manifest.Builder
}

// newPluginSources assembles the loaders for cfg: compiled-in plugins,
// manifest directories, then remote plugin servers.
func newPluginSources(cfg *config.Config) (*pluginSources, error) {
	dirs, resolved := config.ResolvePluginDirs(pluginDirsFlag, cfg)
	config.LogResolvedValues(resolved)

	dirs, err := config.ExpandPaths(dirs)
	if err != nil {
		return nil, fmt.Errorf("expanding plugin directories: %w", err)
	}

	s := &pluginSources{
		dirs: dirs,
		builder: manifest.Builder{
			Catalog:  builtin.Catalog(),
			Fragment: remote.FragmentFunc(remote.DefaultClient),
		},
	}

	if cfg.BuiltinEnabled() {
		s.loaders = append(s.loaders, plugin.StaticLoader(builtin.Source, plugin.Default().Snapshot()...))
	}
	for _, dir := range dirs {
		s.loaders = append(s.loaders, manifest.NewDirLoader(dir, s.builder))
	}
	for _, r := range cfg.Plugins.Remotes {
		s.loaders = append(s.loaders, remote.NewLoader(r.Name, r.URL, remote.DefaultClient, s.builder))
	}

	output.Debug("plugin sources", "builtin", cfg.BuiltinEnabled(), "dirs", len(dirs), "remotes", len(cfg.Plugins.Remotes))
	return s, nil
}

// load runs every loader into reg behind a spinner. It is meant for the
// initial load of a command; reloads of a running server use reloader.
func (s *pluginSources) load(ctx context.Context, reg *plugin.Registry) error {
	return output.RunWithSpinner(ctx, func() error {
		return plugin.LoadAll(ctx, reg, s.loaders...)
	}, output.WithTitle("Loading plugins..."))
}

// reloader returns the function backing POST /-/reload. It runs every
// loader into the long-lived reg and returns only once all of them have
// finished, then snapshots reg.
func (s *pluginSources) reloader(reg *plugin.Registry) shell.ReloadFunc {
	return func(ctx context.Context) (*plugin.Provider, error) {
		if err := plugin.LoadAll(ctx, reg, s.loaders...); err != nil {
			return nil, err
		}
		return plugin.NewProvider(reg), nil
	}
}

// loadProvider loads every configured source into a new registry and
// snapshots it.
func loadProvider(ctx context.Context, cfg *config.Config) (*plugin.Provider, error) {
	sources, err := newPluginSources(cfg)
	if err != nil {
		return nil, err
	}

	reg := plugin.NewRegistry()
	if err := sources.load(ctx, reg); err != nil {
		return nil, err
	}
	return plugin.NewProvider(reg), nil
}
