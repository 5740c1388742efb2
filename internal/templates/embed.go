package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed layouts/*.html
var layoutFS embed.FS

// LayoutName identifies an embedded layout.
type LayoutName string

const (
	// Shell is the full dashboard layout.
	Shell LayoutName = "shell"

	// Minimal renders the header slot and the content only.
	Minimal LayoutName = "minimal"
)

// ValidLayouts returns all valid layout names.
func ValidLayouts() []string {
	return []string{
		string(Shell),
		string(Minimal),
	}
}

// IsValidLayout checks if a layout name is valid.
func IsValidLayout(name string) bool {
	switch LayoutName(name) {
	case Shell, Minimal:
		return true
	default:
		return false
	}
}

// Page is a parsed layout together with the shared page fragments.
type Page struct {
	tmpl *template.Template
}

// Parse parses the named layout with funcs. funcs must define every function
// the layouts call ("slot"); per-request implementations are bound later
// with Execute.
func Parse(name LayoutName, funcs template.FuncMap) (*Page, error) {
	if !IsValidLayout(string(name)) {
		return nil, fmt.Errorf("unknown layout %q", name)
	}
	tmpl, err := template.New(string(name)+".html").Funcs(funcs).ParseFS(layoutFS,
		"layouts/"+string(name)+".html", "layouts/fragments.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout %s: %w", name, err)
	}
	return &Page{tmpl: tmpl}, nil
}

// Execute renders data with funcs bound for this call only.
func (p *Page) Execute(w io.Writer, data PageData, funcs template.FuncMap) error {
	tmpl, err := p.tmpl.Clone()
	if err != nil {
		return fmt.Errorf("cloning layout: %w", err)
	}
	if err := tmpl.Funcs(funcs).Execute(w, data); err != nil {
		return fmt.Errorf("executing layout: %w", err)
	}
	return nil
}

// Fragment renders one of the shared fragments ("notfound", "error"). The
// parsed layout is never executed directly so that it stays cloneable.
func (p *Page) Fragment(w io.Writer, name string, data any) error {
	tmpl, err := p.tmpl.Clone()
	if err != nil {
		return fmt.Errorf("cloning layout: %w", err)
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("executing fragment %s: %w", name, err)
	}
	return nil
}
