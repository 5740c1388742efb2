package shell

import (
	"time"

	"github.com/cspdashboard/shell/internal/plugin"
	"github.com/cspdashboard/shell/internal/render"
)

// Snapshot is the serializable description of a provider snapshot, served by
// /-/plugins and printed by the CLI.
type Snapshot struct {
	ID          string           `json:"id" yaml:"id"`
	CreatedAt   time.Time        `json:"createdAt" yaml:"createdAt"`
	Plugins     []PluginInfo     `json:"plugins" yaml:"plugins"`
	Routes      []RouteInfo      `json:"routes" yaml:"routes"`
	Slots       []SlotInfo       `json:"slots" yaml:"slots"`
	Navigations []NavigationInfo `json:"navigations,omitempty" yaml:"navigations,omitempty"`
}

// PluginInfo describes one manifest of the snapshot.
type PluginInfo struct {
	Name   string   `json:"name" yaml:"name"`
	Source string   `json:"source,omitempty" yaml:"source,omitempty"`
	Routes []string `json:"routes,omitempty" yaml:"routes,omitempty"`
	Slots  []string `json:"slots,omitempty" yaml:"slots,omitempty"`
}

// RouteInfo describes one entry of the composed route table.
type RouteInfo struct {
	Path      string `json:"path" yaml:"path"`
	Plugin    string `json:"plugin" yaml:"plugin"`
	Component string `json:"component" yaml:"component"`
}

// SlotInfo describes one slot and its contributions in render order.
type SlotInfo struct {
	Name       string          `json:"name" yaml:"name"`
	Components []SlotEntryInfo `json:"components" yaml:"components"`
}

// SlotEntryInfo is one rendered component of a slot.
type SlotEntryInfo struct {
	Key       string `json:"key" yaml:"key"`
	Plugin    string `json:"plugin" yaml:"plugin"`
	Component string `json:"component" yaml:"component"`
}

// NavigationInfo is one sidebar entry.
type NavigationInfo struct {
	Label    string `json:"label" yaml:"label"`
	Position int    `json:"position" yaml:"position"`
	Route    string `json:"route" yaml:"route"`
	Plugin   string `json:"plugin" yaml:"plugin"`
}

// Describe summarizes p.
func Describe(p *plugin.Provider) Snapshot {
	s := Snapshot{
		ID:        p.ID(),
		CreatedAt: p.CreatedAt(),
		Plugins:   []PluginInfo{},
		Routes:    []RouteInfo{},
		Slots:     []SlotInfo{},
	}

	for _, m := range p.Manifests() {
		s.Plugins = append(s.Plugins, PluginInfo{
			Name:   m.Name,
			Source: m.Source,
			Routes: m.RoutePaths(),
			Slots:  m.SlotNames(),
		})
	}

	for _, r := range p.Routes().Routes() {
		s.Routes = append(s.Routes, RouteInfo{
			Path:      r.Path,
			Plugin:    r.Plugin,
			Component: plugin.NameOf(r.Component),
		})
	}

	for _, name := range p.SlotNames() {
		s.Slots = append(s.Slots, DescribeSlot(p, name))
	}

	for _, n := range p.Navigations() {
		s.Navigations = append(s.Navigations, NavigationInfo{
			Label:    n.Label,
			Position: n.Position,
			Route:    n.Route,
			Plugin:   n.Plugin,
		})
	}
	return s
}

// DescribeSlot summarizes one slot of p. An unknown slot has no components.
func DescribeSlot(p *plugin.Provider, name string) SlotInfo {
	info := SlotInfo{Name: name, Components: []SlotEntryInfo{}}
	for _, e := range p.SlotEntries(name) {
		info.Components = append(info.Components, SlotEntryInfo{
			Key:       render.Key(e.Slot, e.Index),
			Plugin:    e.Plugin,
			Component: plugin.NameOf(e.Component),
		})
	}
	return info
}
