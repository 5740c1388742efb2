package plugin

import (
	"sort"
	"strings"

	"github.com/cspdashboard/shell/internal/output"
)

// Route is one entry of a composed route table.
type Route struct {
	// Path is the route path as declared by the owning manifest.
	Path string

	// Component renders the route.
	Component Component

	// Plugin is the name of the manifest that owns the path.
	Plugin string
}

// RouteTable is the flat path → route mapping produced by ComposeRoutes.
// The zero value is an empty table.
type RouteTable struct {
	routes map[string]Route
}

// RouteKey returns the identity of a route path. Surrounding slashes are
// dropped and every ":name" segment compares equal, so two paths share a key
// exactly when they match the same request URLs.
func RouteKey(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if len(p) > 1 && p[0] == ':' {
			parts[i] = ":"
		}
	}
	return strings.Join(parts, "/")
}

// ComposeRoutes merges the routes of manifests in the given order. When two
// manifests declare the same path, or paths with the same RouteKey, the one
// merged later wins and the earlier entry is silently dropped. Merge order,
// not registration order, decides the owner.
func ComposeRoutes(manifests ...*Manifest) RouteTable {
	routes := make(map[string]Route)
	for _, m := range manifests {
		if m == nil {
			continue
		}
		for _, path := range m.RoutePaths() {
			component := m.Routes[path]
			if component == nil {
				continue
			}
			key := RouteKey(path)
			if prev, ok := routes[key]; ok && (prev.Plugin != m.Name || prev.Path != path) {
				output.Debug("route overridden", "path", path, "previous", prev.Plugin,
					"previousPath", prev.Path, "owner", m.Name)
			}
			routes[key] = Route{Path: path, Component: component, Plugin: m.Name}
		}
	}
	return RouteTable{routes: routes}
}

// Lookup returns the route that owns path, matching by RouteKey.
func (t RouteTable) Lookup(path string) (Route, bool) {
	r, ok := t.routes[RouteKey(path)]
	return r, ok
}

// Component returns the component that owns path.
func (t RouteTable) Component(path string) (Component, bool) {
	r, ok := t.Lookup(path)
	if !ok {
		return nil, false
	}
	return r.Component, true
}

// Paths returns the declared path of every route in the table, sorted.
func (t RouteTable) Paths() []string {
	paths := make([]string, 0, len(t.routes))
	for _, r := range t.routes {
		paths = append(paths, r.Path)
	}
	sort.Strings(paths)
	return paths
}

// Routes returns every route in the table, sorted by declared path.
func (t RouteTable) Routes() []Route {
	out := make([]Route, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

// Len returns the number of routes.
func (t RouteTable) Len() int {
	return len(t.routes)
}
