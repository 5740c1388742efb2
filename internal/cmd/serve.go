package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cspdashboard/shell/internal/config"
	"github.com/cspdashboard/shell/internal/manifest"
	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/plugin"
	"github.com/cspdashboard/shell/internal/shell"
	"github.com/cspdashboard/shell/internal/templates"
)

var (
	serveAddressFlag string
	serveTitleFlag   string
	serveLayoutFlag  string
	serveWatchFlag   bool
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shell",
		Long: `Load every configured plugin source and serve the shell.

Plugin sources are loaded concurrently into one registry. Registration
follows completion order; when two sources publish the same plugin name the
one registered last wins. Once every source has finished a snapshot is
taken and served. POST /-/reload reloads every source and swaps in a new
snapshot; with --watch, changed manifest files are registered as soon as
they are written.

Endpoints:
  /            pages composed from plugin routes and slots
  /-/plugins   the served snapshot as JSON
  /-/healthz   liveness
  /-/reload    reload plugin sources (POST)

Examples:
  # Serve the built-in plugins and a directory of manifests
  csp serve --plugins-dir ./plugins

  # Listen on another port and re-register manifests on change
  csp serve --address :9000 --watch`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddressFlag, "address", "", "Listen address (env: CSP_ADDRESS)")
	cmd.Flags().StringVar(&serveTitleFlag, "title", "", "Document title")
	cmd.Flags().StringVar(&serveLayoutFlag, "layout", "", layoutUsage())
	cmd.Flags().BoolVar(&serveWatchFlag, "watch", false, "Register changed manifest files without restarting (env: CSP_WATCH)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	validator, err := config.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.Validate(cfg); err != nil {
		return withExitCode(err)
	}

	address := config.ResolveAddress(serveAddressFlag, cfg)
	config.LogResolvedValues(address)

	sources, err := newPluginSources(cfg)
	if err != nil {
		return withExitCode(err)
	}

	reg := plugin.NewRegistry()
	if err := sources.load(ctx, reg); err != nil {
		return withExitCode(err)
	}

	srv, err := shell.New(plugin.NewProvider(reg), serverOptions(cfg, address.Value, sources.reloader(reg)))
	if err != nil {
		return withExitCode(err)
	}

	if (serveWatchFlag || cfg.Plugins.Watch) && len(sources.dirs) > 0 {
		watcher, err := manifest.NewWatcher(reg, sources.builder, sources.dirs,
			manifest.WithOnRegister(func(m *plugin.Manifest) {
				srv.Update("watch", func() *plugin.Provider {
					return plugin.NewProvider(reg)
				})
			}))
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			watcher.Stop()
			return withExitCode(err)
		}
		defer watcher.Stop()
	}

	p := srv.Provider()
	output.Info("plugins loaded",
		"plugins", len(p.Manifests()),
		"routes", p.Routes().Len(),
		"snapshot", p.ID(),
	)

	return srv.Start(ctx)
}

func layoutUsage() string {
	var names []string
	for _, l := range templates.List() {
		names = append(names, l.Name)
	}
	return "Page layout: " + strings.Join(names, ", ")
}

// serverOptions applies the serve flags over the configuration.
func serverOptions(cfg *config.Config, address string, reload shell.ReloadFunc) shell.Options {
	opts := shell.Options{
		Address:           address,
		Title:             cfg.Server.Title,
		Layout:            templates.LayoutName(cfg.Server.Layout),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		Reload:            reload,
	}
	if serveTitleFlag != "" {
		opts.Title = serveTitleFlag
	}
	if serveLayoutFlag != "" {
		opts.Layout = templates.LayoutName(serveLayoutFlag)
	}
	return opts
}
