package templates

import "fmt"

// Slot names rendered by the shell layout. Plugins contribute to them by
// name; a misspelled name is a slot nobody renders.
const (
	SlotMainHeader      = "shell-main-header"
	SlotMainHeaderLeft  = "shell-main-header-left"
	SlotMainHeaderRight = "shell-main-header-right"
	SlotSidebarFooter   = "shell-sidebar-footer"
)

// layouts is the internal registry of available layouts.
var layouts = map[LayoutName]Layout{
	Shell: {
		Name:        string(Shell),
		Description: "Sidebar with navigation and footer slot, header with left/center/right slots",
		Default:     true,
		Slots:       []string{SlotMainHeaderLeft, SlotMainHeader, SlotMainHeaderRight, SlotSidebarFooter},
	},
	Minimal: {
		Name:        string(Minimal),
		Description: "Header slot and routed content only, for embedding in other pages",
		Default:     false,
		Slots:       []string{SlotMainHeader},
	},
}

// Get returns a layout by name.
func Get(name string) (Layout, error) {
	l, ok := layouts[LayoutName(name)]
	if !ok {
		return Layout{}, fmt.Errorf("unknown layout %q; valid layouts: shell, minimal", name)
	}
	return l, nil
}

// List returns all available layouts.
func List() []Layout {
	return []Layout{
		layouts[Shell],
		layouts[Minimal],
	}
}

// GetDefault returns the default layout.
func GetDefault() Layout {
	return layouts[Shell]
}
