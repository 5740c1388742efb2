package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Merge order, not registration order, decides which plugin owns a path.
func TestComposeRoutes_CollisionFollowsMergeOrder(t *testing.T) {
	a := &Manifest{Name: "a", Routes: map[string]Component{"foo": stub("a")}}
	b := &Manifest{Name: "b", Routes: map[string]Component{"foo": stub("b")}}

	tests := []struct {
		name      string
		order     []*Manifest
		wantOwner string
	}{
		{"a then b", []*Manifest{a, b}, "b"},
		{"b then a", []*Manifest{b, a}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := ComposeRoutes(tt.order...)

			route, ok := table.Lookup("foo")
			require.True(t, ok)
			assert.Equal(t, tt.wantOwner, route.Plugin)
			assert.Equal(t, stub(tt.wantOwner), route.Component)
			assert.Equal(t, 1, table.Len())
		})
	}
}

func TestComposeRoutes_Union(t *testing.T) {
	search := stub("search")
	timeline := stub("timeline")
	details := stub("details")
	table := ComposeRoutes(
		&Manifest{Name: "search", Routes: map[string]Component{"customer-search": search}},
		nil,
		&Manifest{Name: "timeline", Routes: map[string]Component{
			"customer-timeline/:customerId": timeline,
			"application-details":           details,
		}},
	)

	assert.Equal(t, []string{"application-details", "customer-search", "customer-timeline/:customerId"}, table.Paths())
	got, ok := table.Component("customer-search")
	require.True(t, ok)
	assert.Equal(t, search, got)

	routes := table.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "timeline", routes[0].Plugin)
}

func TestComposeRoutes_SkipsNilComponents(t *testing.T) {
	table := ComposeRoutes(&Manifest{Name: "a", Routes: map[string]Component{"foo": nil}})
	_, ok := table.Component("foo")
	assert.False(t, ok)
}

func TestRouteTable_ZeroValue(t *testing.T) {
	var table RouteTable
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Paths())
	_, ok := table.Lookup("foo")
	assert.False(t, ok)
}

func TestRouteKey(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"customer-search", "customer-search"},
		{"/customer-search/", "customer-search"},
		{"customer-timeline/:customerId", "customer-timeline/:"},
		{"/customer-timeline/:id", "customer-timeline/:"},
		{":section/details", ":/details"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, RouteKey(tt.path))
		})
	}
}

// Paths that match the same URLs are one route; merge order picks the owner.
func TestComposeRoutes_EquivalentPathsCollide(t *testing.T) {
	tests := []struct {
		name  string
		pathA string
		pathB string
	}{
		{"param names differ", "customer-timeline/:customerId", "customer-timeline/:id"},
		{"leading slash", "/customer-search", "customer-search"},
		{"trailing slash", "customer-search/", "customer-search"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Manifest{Name: "a", Routes: map[string]Component{tt.pathA: stub("a")}}
			b := &Manifest{Name: "b", Routes: map[string]Component{tt.pathB: stub("b")}}

			table := ComposeRoutes(a, b)
			require.Equal(t, 1, table.Len())
			route, ok := table.Lookup(tt.pathA)
			require.True(t, ok)
			assert.Equal(t, "b", route.Plugin)
			assert.Equal(t, tt.pathB, route.Path)

			table = ComposeRoutes(b, a)
			require.Equal(t, 1, table.Len())
			route, ok = table.Lookup(tt.pathB)
			require.True(t, ok)
			assert.Equal(t, "a", route.Plugin)
			assert.Equal(t, []string{tt.pathA}, table.Paths())
		})
	}
}
