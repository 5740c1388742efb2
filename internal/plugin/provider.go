package plugin

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cspdashboard/shell/internal/output"
)

// SlotEntry is one component contributed to a slot, with its provenance.
type SlotEntry struct {
	Slot      string
	Plugin    string
	Index     int
	Component Component
}

// NavigationEntry is a navigation item together with the plugin declaring it.
type NavigationEntry struct {
	Navigation
	Plugin string
}

// Provider answers slot and route lookups against an immutable snapshot of
// manifests taken when it was built.
type Provider struct {
	id        string
	createdAt time.Time
	manifests []*Manifest
	routes    RouteTable
	slots     map[string][]SlotEntry
}

// NewProvider snapshots extra followed by the current contents of reg.
//
// Precedence: when the same plugin name appears in both sources, the
// registry's manifest wins. The name keeps the position of its first
// occurrence, so the caller-supplied order is preserved for everything the
// registry does not override. reg may be nil.
func NewProvider(reg *Registry, extra ...*Manifest) *Provider {
	var fromRegistry []*Manifest
	if reg != nil {
		fromRegistry = reg.Snapshot()
	}

	merged := mergeManifests(extra, fromRegistry)

	p := &Provider{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		manifests: merged,
		routes:    ComposeRoutes(merged...),
		slots:     indexSlots(merged),
	}

	output.Debug("plugin snapshot created", "snapshot", p.id,
		"plugins", len(p.manifests), "routes", p.routes.Len(), "slots", len(p.slots))
	return p
}

// mergeManifests merges the sources in order; later sources win on name
// collision while the first position of a name is retained.
func mergeManifests(sources ...[]*Manifest) []*Manifest {
	index := make(map[string]int)
	var out []*Manifest
	for _, src := range sources {
		for _, m := range src {
			if m == nil {
				continue
			}
			if i, ok := index[m.Name]; ok {
				out[i] = m
				continue
			}
			index[m.Name] = len(out)
			out = append(out, m)
		}
	}
	return out
}

func indexSlots(manifests []*Manifest) map[string][]SlotEntry {
	slots := make(map[string][]SlotEntry)
	for _, m := range manifests {
		for _, name := range m.SlotNames() {
			for _, c := range m.Slots[name].Components() {
				slots[name] = append(slots[name], SlotEntry{
					Slot:      name,
					Plugin:    m.Name,
					Index:     len(slots[name]),
					Component: c,
				})
			}
		}
	}
	return slots
}

// ID returns the snapshot identifier.
func (p *Provider) ID() string {
	return p.id
}

// CreatedAt returns when the snapshot was taken.
func (p *Provider) CreatedAt() time.Time {
	return p.createdAt
}

// Manifests returns the snapshot's manifests in snapshot order.
func (p *Provider) Manifests() []*Manifest {
	out := make([]*Manifest, len(p.manifests))
	copy(out, p.manifests)
	return out
}

// Manifest returns the snapshot's manifest named name.
func (p *Provider) Manifest(name string) (*Manifest, bool) {
	for _, m := range p.manifests {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// SlotComponents returns every component contributed to slot, ordered by
// snapshot position and then by the manifest's own order. It returns an
// empty, non-nil slice when nothing contributes to slot.
func (p *Provider) SlotComponents(slot string) []Component {
	entries := p.slots[slot]
	out := make([]Component, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Component)
	}
	return out
}

// SlotEntries is SlotComponents with provenance.
func (p *Provider) SlotEntries(slot string) []SlotEntry {
	out := make([]SlotEntry, len(p.slots[slot]))
	copy(out, p.slots[slot])
	return out
}

// SlotNames returns the names of every slot with at least one contribution,
// sorted.
func (p *Provider) SlotNames() []string {
	return sortedKeys(p.slots)
}

// RouteComponent returns the component that owns route in the composed
// route table. Route ownership follows ComposeRoutes, so the answer is
// always the one the router mounts.
func (p *Provider) RouteComponent(route string) (Component, bool) {
	return p.routes.Component(route)
}

// Routes returns the composed route table.
func (p *Provider) Routes() RouteTable {
	return p.routes
}

// Navigations returns the navigation entries of every manifest, ordered by
// Position and then by snapshot order.
func (p *Provider) Navigations() []NavigationEntry {
	var out []NavigationEntry
	for _, m := range p.manifests {
		for _, n := range m.Navigations {
			out = append(out, NavigationEntry{Navigation: n, Plugin: m.Name})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}
