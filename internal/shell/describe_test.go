package shell

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"github.com/cspdashboard/shell/internal/plugin"
)

func TestDescribe(t *testing.T) {
	reg := plugin.NewRegistry()
	reg.Register(&plugin.Manifest{
		Name:   "a",
		Source: "builtin",
		Routes: map[string]plugin.Component{"foo": named("A.Foo")},
		Slots:  map[string]plugin.SlotContribution{"x": plugin.SlotList(named("A.X"))},
	})
	reg.Register(&plugin.Manifest{
		Name:        "b",
		Source:      "plugins/b.yaml",
		Routes:      map[string]plugin.Component{"foo": named("B.Foo"), "bar": named("B.Bar")},
		Slots:       map[string]plugin.SlotContribution{"x": plugin.SlotSingle(named("B.X"))},
		Navigations: []plugin.Navigation{{Label: "Bar", Position: 1, Route: "bar"}},
	})
	p := plugin.NewProvider(reg)

	got := Describe(p)

	want := Snapshot{
		ID: p.ID(),
		Plugins: []PluginInfo{
			{Name: "a", Source: "builtin", Routes: []string{"foo"}, Slots: []string{"x"}},
			{Name: "b", Source: "plugins/b.yaml", Routes: []string{"bar", "foo"}, Slots: []string{"x"}},
		},
		Routes: []RouteInfo{
			{Path: "bar", Plugin: "b", Component: "B.Bar"},
			{Path: "foo", Plugin: "b", Component: "B.Foo"},
		},
		Slots: []SlotInfo{{Name: "x", Components: []SlotEntryInfo{
			{Key: "x-0", Plugin: "a", Component: "A.X"},
			{Key: "x-1", Plugin: "b", Component: "B.X"},
		}}},
		Navigations: []NavigationInfo{{Label: "Bar", Position: 1, Route: "bar", Plugin: "b"}},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Snapshot{}, "CreatedAt")); diff != "" {
		t.Errorf("Describe() mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeSlot_Unknown(t *testing.T) {
	info := DescribeSlot(plugin.NewProvider(nil), "nope")
	assert.Equal(t, "nope", info.Name)
	assert.NotNil(t, info.Components)
	assert.Empty(t, info.Components)
}
