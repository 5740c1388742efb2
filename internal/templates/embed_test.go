package templates

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cspdashboard/shell/internal/plugin"
)

// stubFuncs renders each slot as a marker so layouts can be checked without
// a provider.
func stubFuncs() template.FuncMap {
	return template.FuncMap{
		"slot": func(name string, _ ...plugin.Props) template.HTML {
			return template.HTML("[" + name + "]")
		},
	}
}

func TestValidLayouts(t *testing.T) {
	layouts := ValidLayouts()
	assert.Len(t, layouts, 2)
	assert.Contains(t, layouts, "shell")
	assert.Contains(t, layouts, "minimal")
}

func TestIsValidLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   bool
	}{
		{"shell is valid", "shell", true},
		{"minimal is valid", "minimal", true},
		{"unknown is invalid", "unknown", false},
		{"empty is invalid", "", false},
		{"SHELL case-sensitive", "SHELL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidLayout(tt.layout))
		})
	}
}

func TestRegistry(t *testing.T) {
	def := GetDefault()
	assert.Equal(t, "shell", def.Name)
	assert.True(t, def.Default)

	l, err := Get("minimal")
	require.NoError(t, err)
	assert.False(t, l.Default)

	_, err = Get("fancy")
	assert.Error(t, err)
	assert.Len(t, List(), 2)
}

// Each layout renders exactly the slots its registry entry lists.
func TestParse_LayoutSlots(t *testing.T) {
	for _, layout := range List() {
		t.Run(layout.Name, func(t *testing.T) {
			page, err := Parse(LayoutName(layout.Name), stubFuncs())
			require.NoError(t, err)

			var sb strings.Builder
			require.NoError(t, page.Execute(&sb, PageData{Title: "CSP", Content: "<p>routed</p>"}, stubFuncs()))
			out := sb.String()

			assert.Contains(t, out, "<p>routed</p>")
			assert.Equal(t, len(layout.Slots), strings.Count(out, "[shell-"))
			for _, slot := range layout.Slots {
				assert.Contains(t, out, "["+slot+"]")
			}
		})
	}
}

func TestPage_ShellNavigation(t *testing.T) {
	page, err := Parse(Shell, stubFuncs())
	require.NoError(t, err)

	data := PageData{
		Title: "CSP",
		Path:  "customer-search",
		Navigations: []plugin.NavigationEntry{
			{Navigation: plugin.Navigation{Label: "Search", Position: 10, Route: "customer-search"}, Plugin: "ciam"},
			{Navigation: plugin.Navigation{Label: "Timeline", Position: 20, Route: "customer-timeline"}, Plugin: "origination"},
		},
		SnapshotID: "snap-1",
	}

	var sb strings.Builder
	require.NoError(t, page.Execute(&sb, data, stubFuncs()))
	out := sb.String()

	assert.Contains(t, out, `<a href="/customer-search" aria-current="page">Search</a>`)
	assert.Contains(t, out, `<a href="/customer-timeline">Timeline</a>`)
	assert.Less(t, strings.Index(out, "Search"), strings.Index(out, "Timeline"))
	assert.Contains(t, out, `data-snapshot="snap-1"`)
}

func TestPage_ExecuteTwiceAndFragments(t *testing.T) {
	page, err := Parse(Minimal, stubFuncs())
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, page.Fragment(&sb, "notfound", PageData{Path: "nope"}))
	assert.Contains(t, sb.String(), "<code>/nope</code>")

	sb.Reset()
	require.NoError(t, page.Fragment(&sb, "error", map[string]string{"Message": "<boom>"}))
	assert.Contains(t, sb.String(), "&lt;boom&gt;")

	for range 2 {
		sb.Reset()
		require.NoError(t, page.Execute(&sb, PageData{Title: "CSP"}, stubFuncs()))
	}
}

func TestParse_Unknown(t *testing.T) {
	_, err := Parse("fancy", stubFuncs())
	assert.Error(t, err)
}
