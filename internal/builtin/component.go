package builtin

import (
	"context"
	"io"

	"github.com/cspdashboard/shell/internal/manifest"
	"github.com/cspdashboard/shell/internal/plugin"
)

// templateComponent is a manifest template with default props; request props
// override the defaults.
type templateComponent struct {
	*manifest.Template
	defaults plugin.Props
}

func (c templateComponent) Render(ctx context.Context, w io.Writer, props plugin.Props) error {
	merged := c.defaults.Clone()
	for k, v := range props {
		merged[k] = v
	}
	return c.Template.Render(ctx, w, merged)
}

func mustTemplate(name, src string, defaults plugin.Props) plugin.Component {
	tmpl, err := manifest.NewTemplate(name, src)
	if err != nil {
		panic(err)
	}
	return templateComponent{Template: tmpl, defaults: defaults}
}
