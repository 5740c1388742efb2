package plugin

import "sort"

// Navigation is a sidebar entry declared by a plugin.
type Navigation struct {
	// Label is the text shown in the sidebar.
	Label string `json:"label" yaml:"label"`

	// Position orders entries across plugins; lower comes first.
	Position int `json:"position" yaml:"position"`

	// Route is the route path the entry links to (e.g. "customer-search").
	Route string `json:"route" yaml:"route"`
}

// Manifest is the unit a plugin publishes: the routes and slot contributions
// it adds to the shell.
//
// A manifest must not be mutated after it has been registered. The registry
// keeps the value by reference.
type Manifest struct {
	// Name identifies the plugin. Registering a second manifest with the same
	// name replaces the first one entirely.
	Name string

	// Routes maps a route path to the component rendered for it.
	Routes map[string]Component

	// Slots maps a slot name to this plugin's contribution to it.
	Slots map[string]SlotContribution

	// Navigations lists the sidebar entries this plugin declares.
	Navigations []Navigation

	// Source records where the manifest came from (file path, URL, "builtin").
	// Informational only.
	Source string
}

// RoutePaths returns the manifest's route paths, sorted.
func (m *Manifest) RoutePaths() []string {
	return sortedKeys(m.Routes)
}

// SlotNames returns the names of the slots the manifest contributes to,
// sorted.
func (m *Manifest) SlotNames() []string {
	return sortedKeys(m.Slots)
}

// SlotComponents returns this manifest's components for slot, or nil.
func (m *Manifest) SlotComponents(slot string) []Component {
	contribution, ok := m.Slots[slot]
	if !ok {
		return nil
	}
	return contribution.Components()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
