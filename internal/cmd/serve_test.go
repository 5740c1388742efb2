package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cspdashboard/shell/internal/config"
	"github.com/cspdashboard/shell/internal/plugin"
	"github.com/cspdashboard/shell/internal/templates"
	"github.com/cspdashboard/shell/internal/testutil"
)

func TestNewServeCmd(t *testing.T) {
	cmd := NewServeCmd()

	assert.Equal(t, "serve", cmd.Use)
	for _, name := range []string{"address", "title", "layout", "watch"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestServerOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Title = "From config"

	t.Run("config values", func(t *testing.T) {
		serveTitleFlag, serveLayoutFlag = "", ""

		opts := serverOptions(cfg, ":9000", nil)

		assert.Equal(t, ":9000", opts.Address)
		assert.Equal(t, "From config", opts.Title)
		assert.Equal(t, templates.Shell, opts.Layout)
		assert.Equal(t, 10*time.Second, opts.ReadHeaderTimeout)
		assert.Equal(t, 15*time.Second, opts.ShutdownTimeout)
		assert.Nil(t, opts.Reload)
	})

	t.Run("flags win", func(t *testing.T) {
		serveTitleFlag, serveLayoutFlag = "From flag", "minimal"
		t.Cleanup(func() { serveTitleFlag, serveLayoutFlag = "", "" })

		opts := serverOptions(cfg, ":9000", func(context.Context) (*plugin.Provider, error) { return nil, nil })

		assert.Equal(t, "From flag", opts.Title)
		assert.Equal(t, templates.Minimal, opts.Layout)
		assert.NotNil(t, opts.Reload)
	})
}

func TestNewPluginSources(t *testing.T) {
	isolateHome(t)
	dir := testutil.FixturePath(t, "plugins")
	pluginDirsFlag = []string{dir}
	t.Cleanup(func() { pluginDirsFlag = nil })

	cfg := config.DefaultConfig()
	cfg.Plugins.Remotes = []config.RemoteConfig{{Name: "ciam", URL: "http://127.0.0.1:1/manifest.json"}}

	sources, err := newPluginSources(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{dir}, sources.dirs)
	require.Len(t, sources.loaders, 3)
	assert.Equal(t, "builtin", sources.loaders[0].Name())
	assert.Equal(t, "dir:"+dir, sources.loaders[1].Name())
	assert.Equal(t, "remote:ciam", sources.loaders[2].Name())
	assert.NotNil(t, sources.builder.Fragment)
	assert.Contains(t, sources.builder.Catalog.Names(), "Support")
}

func TestLoadProvider_ReloadSeesNewFiles(t *testing.T) {
	isolateHome(t)
	dir := testutil.CopyFixture(t, "plugins")
	pluginDirsFlag = []string{dir}
	t.Cleanup(func() { pluginDirsFlag = nil })

	cfg := config.DefaultConfig()
	first, err := loadProvider(context.Background(), cfg)
	require.NoError(t, err)
	_, ok := first.Manifest("late")
	assert.False(t, ok)

	testutil.WriteFile(t, dir, "late.yaml", "name: late\nroutes:\n  late:\n    template: <p>late</p>\n")

	second, err := loadProvider(context.Background(), cfg)
	require.NoError(t, err)
	_, ok = second.Manifest("late")
	assert.True(t, ok)
	assert.NotEqual(t, first.ID(), second.ID())

	// The earlier snapshot is unaffected.
	_, ok = first.Manifest("late")
	assert.False(t, ok)
}

// The reload function returns only after every source has registered, even
// when the caller's context is already gone.
func TestPluginSources_ReloaderWaitsForLoaders(t *testing.T) {
	slow := plugin.LoaderFunc{
		ID: "slow",
		Fn: func(context.Context) ([]*plugin.Manifest, error) {
			time.Sleep(50 * time.Millisecond)
			return []*plugin.Manifest{{Name: "slow"}}, nil
		},
	}
	sources := &pluginSources{loaders: []plugin.Loader{
		plugin.StaticLoader("static", &plugin.Manifest{Name: "static"}),
		slow,
	}}
	reg := plugin.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := sources.reloader(reg)(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"static", "slow"}, reg.Names())
	_, ok := p.Manifest("slow")
	assert.True(t, ok)
}

func TestPluginSources_ReloaderFailure(t *testing.T) {
	sources := &pluginSources{loaders: []plugin.Loader{plugin.LoaderFunc{
		ID: "broken",
		Fn: func(context.Context) ([]*plugin.Manifest, error) {
			return nil, assert.AnError
		},
	}}}

	p, err := sources.reloader(plugin.NewRegistry())(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, p)
}
