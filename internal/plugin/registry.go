package plugin

import (
	"sync"

	"github.com/cspdashboard/shell/internal/output"
)

// Registry is the table manifests are deposited into, keyed by plugin name.
//
// Entries are added or overwritten, never removed. Iteration order is the
// order in which names were first registered; overwriting a name keeps its
// original position. A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*Manifest
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Manifest)}
}

// Register inserts m under m.Name, replacing any manifest already registered
// under that name. It returns m unchanged so call sites can construct and
// register in one expression.
//
// No shape validation is performed: a manifest with no routes and no slots is
// valid and contributes nothing. A nil manifest is ignored.
func (r *Registry) Register(m *Manifest) *Manifest {
	if m == nil {
		return nil
	}

	r.mu.Lock()
	_, replaced := r.entries[m.Name]
	if !replaced {
		r.order = append(r.order, m.Name)
	}
	r.entries[m.Name] = m
	r.mu.Unlock()

	if replaced {
		output.Debug("plugin re-registered, previous manifest replaced", "plugin", m.Name, "source", m.Source)
	} else {
		output.Debug("plugin registered", "plugin", m.Name, "source", m.Source,
			"routes", len(m.Routes), "slots", len(m.Slots))
	}
	return m
}

// Get returns the manifest registered under name.
func (r *Registry) Get(name string) (*Manifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.entries[name]
	return m, ok
}

// Names returns the registered plugin names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Snapshot returns the registered manifests in registration order as seen at
// a single point in time.
func (r *Registry) Snapshot() []*Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Manifest, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
// Compiled-in plugins register into it from init(); hosts should prefer an
// explicitly constructed Registry and copy Default's manifests in with
// StaticLoader(Default().Snapshot()...).
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register registers m into the Default registry and returns it.
func Register(m *Manifest) *Manifest {
	return Default().Register(m)
}
