// Package plugin implements the plugin registration and composition core of
// the shell: manifests published by independently built plugins, the registry
// they are deposited into, and the provider snapshot the host uses to look up
// slot contributions and routes.
//
// The flow is:
//
//	loaders ──LoadAll──▶ Registry ──NewProvider──▶ Provider ──▶ slots / routes
//
// A Provider is an immutable point-in-time view. Registrations that happen
// after it was built are only seen by providers built later.
package plugin

import (
	"context"
	"fmt"
	"io"
)

// Props is the property bag handed to every rendered component.
type Props map[string]any

// Clone returns a shallow copy of p. A nil bag clones to an empty one.
func (p Props) Clone() Props {
	dup := make(Props, len(p))
	for k, v := range p {
		dup[k] = v
	}
	return dup
}

// String returns the value under key as a string, or "" when absent or not a
// string.
func (p Props) String(key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

// Component is a renderable unit contributed by a plugin to a route or slot.
type Component interface {
	Render(ctx context.Context, w io.Writer, props Props) error
}

// ComponentFunc adapts a plain function to the Component interface.
type ComponentFunc func(ctx context.Context, w io.Writer, props Props) error

// Render implements Component.
func (f ComponentFunc) Render(ctx context.Context, w io.Writer, props Props) error {
	return f(ctx, w, props)
}

// Named attaches a diagnostic name to a component. The name shows up in
// `csp routes` / `csp slots` output and in render errors.
type Named struct {
	Name string
	Component
}

// NameOf returns the diagnostic name of c, or its Go type when unnamed.
func NameOf(c Component) string {
	if c == nil {
		return "<nil>"
	}
	if n, ok := c.(Named); ok && n.Name != "" {
		return n.Name
	}
	if n, ok := c.(*Named); ok && n != nil && n.Name != "" {
		return n.Name
	}
	if s, ok := c.(interface{ ComponentName() string }); ok {
		return s.ComponentName()
	}
	return fmt.Sprintf("%T", c)
}
