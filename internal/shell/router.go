package shell

import (
	"sort"
	"strings"

	"github.com/cspdashboard/shell/internal/plugin"
)

// segment is one element of a route pattern.
type segment struct {
	value string
	param bool
}

type compiledRoute struct {
	route    plugin.Route
	segments []segment
}

// Router matches request paths against a composed route table. Route paths
// are mounted under "/"; a ":name" segment matches any single non-empty path
// segment and captures it as a parameter.
//
// The table holds one route per plugin.RouteKey, so no two routes match
// exactly the same URLs. When several routes match, the one whose first
// differing segment is static wins, so "customer-timeline/summary" beats
// "customer-timeline/:customerId".
type Router struct {
	routes []compiledRoute
}

// NewRouter compiles table.
func NewRouter(table plugin.RouteTable) *Router {
	routes := make([]compiledRoute, 0, table.Len())
	for _, r := range table.Routes() {
		routes = append(routes, compiledRoute{route: r, segments: compile(r.Path)})
	}
	sort.SliceStable(routes, func(i, j int) bool {
		return moreSpecific(routes[i].segments, routes[j].segments)
	})
	return &Router{routes: routes}
}

// Match returns the route for urlPath and its captured parameters.
func (r *Router) Match(urlPath string) (plugin.Route, map[string]string, bool) {
	parts := split(urlPath)
	for _, cr := range r.routes {
		if params, ok := match(cr.segments, parts); ok {
			return cr.route, params, true
		}
	}
	return plugin.Route{}, nil, false
}

// Len returns the number of mounted routes.
func (r *Router) Len() int {
	return len(r.routes)
}

func compile(path string) []segment {
	parts := split(path)
	segs := make([]segment, len(parts))
	for i, p := range parts {
		if name, ok := strings.CutPrefix(p, ":"); ok && name != "" {
			segs[i] = segment{value: name, param: true}
		} else {
			segs[i] = segment{value: p}
		}
	}
	return segs
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(segs []segment, parts []string) (map[string]string, bool) {
	if len(segs) != len(parts) {
		return nil, false
	}
	params := make(map[string]string)
	for i, s := range segs {
		if s.param {
			if parts[i] == "" {
				return nil, false
			}
			params[s.value] = parts[i]
			continue
		}
		if s.value != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// moreSpecific orders routes by segment count, then lexicographically by
// segment kind with static before parameter.
func moreSpecific(a, b []segment) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i].param != b[i].param {
			return !a[i].param
		}
	}
	return false
}
