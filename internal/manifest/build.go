package manifest

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/plugin"
)

// Catalog maps builtin component names to components compiled into the host.
type Catalog map[string]plugin.Component

// Lookup returns the component registered under name.
func (c Catalog) Lookup(name string) (plugin.Component, bool) {
	comp, ok := c[name]
	return comp, ok
}

// Names returns the catalog's component names, sorted.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FragmentFunc builds a component that proxies an HTML fragment from url.
type FragmentFunc func(url string) plugin.Component

// Builder turns decoded documents into plugin manifests.
type Builder struct {
	// Catalog resolves builtin references.
	Catalog Catalog

	// Fragment resolves proxy references. Documents with proxy references
	// fail to build when it is nil.
	Fragment FragmentFunc
}

// Build resolves every component reference of doc. Relative file references
// are resolved against baseDir. source is recorded on the manifest.
func (b Builder) Build(doc *Document, baseDir, source string) (*plugin.Manifest, error) {
	m := &plugin.Manifest{
		Name:        doc.Name,
		Routes:      make(map[string]plugin.Component, len(doc.Routes)),
		Slots:       make(map[string]plugin.SlotContribution, len(doc.Slots)),
		Navigations: append([]plugin.Navigation(nil), doc.Navigations...),
		Source:      source,
	}

	for _, path := range sortedSpecKeys(doc.Routes) {
		comp, err := b.component(doc.Routes[path], doc.Name+"/routes/"+path, baseDir)
		if err != nil {
			return nil, buildError(source, "routes."+path, err)
		}
		m.Routes[path] = comp
	}

	for _, slot := range sortedSpecKeys(doc.Slots) {
		spec := doc.Slots[slot]
		components := make([]plugin.Component, 0, len(spec.Components))
		for i, cs := range spec.Components {
			comp, err := b.component(cs, fmt.Sprintf("%s/slots/%s-%d", doc.Name, slot, i), baseDir)
			if err != nil {
				return nil, buildError(source, fmt.Sprintf("slots.%s[%d]", slot, i), err)
			}
			components = append(components, comp)
		}
		if spec.Kind == plugin.SlotKindSingle && len(components) == 1 {
			m.Slots[slot] = plugin.SlotSingle(components[0])
		} else {
			m.Slots[slot] = plugin.SlotList(components...)
		}
	}

	return m, nil
}

func (b Builder) component(spec ComponentSpec, name, baseDir string) (plugin.Component, error) {
	switch spec.Kind() {
	case "template":
		return NewTemplate(name, spec.Template)
	case "file":
		path := spec.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading template file %s: %w", path, err)
		}
		return NewTemplate(name, string(data))
	case "builtin":
		comp, ok := b.Catalog.Lookup(spec.Builtin)
		if !ok {
			return nil, fmt.Errorf("builtin component %q: %w", spec.Builtin, oerrors.ErrNotFound)
		}
		return comp, nil
	case "proxy":
		if b.Fragment == nil {
			return nil, fmt.Errorf("proxy component %q: no fragment client configured: %w", spec.Proxy, oerrors.ErrValidation)
		}
		return b.Fragment(spec.Proxy), nil
	default:
		return nil, fmt.Errorf("component must set exactly one of template, file, builtin or proxy: %w", oerrors.ErrValidation)
	}
}

func buildError(source, field string, cause error) error {
	return &oerrors.DetailError{
		Type:     "manifest build failed",
		Message:  cause.Error(),
		Location: source,
		Field:    field,
		Cause:    cause,
	}
}

func sortedSpecKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Template is a component rendered from html/template source. The template
// executes with the component's props as its data.
type Template struct {
	name string
	tmpl *template.Template
}

// NewTemplate parses src into a Template component.
func NewTemplate(name, src string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w: %w", name, oerrors.ErrValidation, err)
	}
	return &Template{name: name, tmpl: tmpl}, nil
}

// ComponentName implements the naming hook used by plugin.NameOf.
func (t *Template) ComponentName() string {
	return t.name
}

// Render implements plugin.Component.
func (t *Template) Render(_ context.Context, w io.Writer, props plugin.Props) error {
	if props == nil {
		props = plugin.Props{}
	}
	return t.tmpl.Execute(w, props)
}
