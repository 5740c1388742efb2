package manifest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/plugin"
	"github.com/cspdashboard/shell/internal/testutil"
)

func TestDirLoader_LoadFixtures(t *testing.T) {
	dir := testutil.FixturePath(t, "plugins")
	l := NewDirLoader(dir, Builder{Catalog: testCatalog()})

	manifests, err := l.Load(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(manifests))
	for _, m := range manifests {
		names = append(names, m.Name)
	}
	// Lexical file order: ciam.cue, header.json, origination.yaml.
	assert.Equal(t, []string{"ciam", "header-search", "origination"}, names)
	assert.Equal(t, "dir:"+dir, l.Name())
	assert.Equal(t, dir, l.Dir())

	origination := manifests[2]
	timeline := origination.Routes["customer-timeline/:customerId"]
	require.NotNil(t, timeline)
	out := render(t, timeline, plugin.Props{"params": map[string]string{"customerId": "C-7"}})
	assert.Contains(t, out, "Customer C-7")
}

func TestDirLoader_SkipsOtherFiles(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	t.Cleanup(cleanup)
	testutil.WriteFile(t, dir, "a.yaml", "name: a\n")
	testutil.WriteFile(t, dir, "notes.md", "# not a manifest")
	testutil.WriteFile(t, dir, "nested/b.yaml", "name: b\n")

	manifests, err := NewDirLoader(dir, Builder{}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	assert.Equal(t, "a", manifests[0].Name)
}

func TestDirLoader_InvalidManifestFailsDirectory(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	t.Cleanup(cleanup)
	testutil.WriteFile(t, dir, "a.yaml", "name: a\n")
	testutil.WriteFile(t, dir, "b.yaml", "name: b\nslots:\n  x: Support\n")

	_, err := NewDirLoader(dir, Builder{}).Load(context.Background())
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestDirLoader_MissingDirectory(t *testing.T) {
	_, err := NewDirLoader("/does/not/exist", Builder{}).Load(context.Background())
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestDirLoader_ContextCancelled(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	t.Cleanup(cleanup)
	testutil.WriteFile(t, dir, "a.yaml", "name: a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDirLoader(dir, Builder{}).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirLoader_WithLoadAll(t *testing.T) {
	reg := plugin.NewRegistry()
	l := NewDirLoader(testutil.FixturePath(t, "plugins"), Builder{Catalog: testCatalog()})

	require.NoError(t, plugin.LoadAll(context.Background(), reg, l))

	p := plugin.NewProvider(reg)
	_, ok := p.RouteComponent("customer-search")
	assert.True(t, ok)
	assert.Len(t, p.SlotComponents("shell-sidebar-footer"), 1)
	assert.Len(t, p.SlotComponents("shell-main-header"), 1)
}
