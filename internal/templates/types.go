// Package templates provides the embedded page layouts the shell renders
// routed content into.
package templates

import (
	"html/template"

	"github.com/cspdashboard/shell/internal/plugin"
)

// Layout describes one embedded page layout.
type Layout struct {
	// Name is the layout identifier (shell, minimal).
	Name string

	// Description explains what the layout draws around the routed content.
	Description string

	// Default indicates the layout used when none is configured.
	Default bool

	// Slots lists the slot names the layout renders.
	Slots []string
}

// PageData is the data a layout executes with.
type PageData struct {
	// Title is the document title.
	Title string

	// Path is the request path without its leading slash.
	Path string

	// Status is the HTTP status the page is served with.
	Status int

	// Content is the routed component's markup, or the not-found/error body.
	Content template.HTML

	// Navigations are the sidebar entries of the current snapshot.
	Navigations []plugin.NavigationEntry

	// Props is the property bag handed to every slot component.
	Props plugin.Props

	// SnapshotID identifies the provider snapshot the page was rendered from.
	SnapshotID string
}
