// Package render renders slots: the named extension points of the shell
// layout that plugins contribute components to.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/plugin"
)

// Key returns the stable key of the index-th component of slot.
func Key(slot string, index int) string {
	return slot + "-" + strconv.Itoa(index)
}

// result is the outcome of rendering one slot entry.
type result struct {
	entry    plugin.SlotEntry
	output   []byte
	duration time.Duration
	err      error
}

// RenderSlot renders every component contributed to slot, in contribution
// order, each wrapped in an element carrying its key. Every component gets
// its own copy of props. Components render concurrently into private buffers
// and are written out in order once all have finished; the first failing
// component, by index, aborts the slot and nothing is written.
//
// An empty slot writes nothing.
func RenderSlot(ctx context.Context, w io.Writer, p *plugin.Provider, slot string, props plugin.Props) error {
	if p == nil {
		return nil
	}
	entries := p.SlotEntries(slot)
	if len(entries) == 0 {
		return nil
	}

	results := make([]result, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = renderEntry(ctx, e, props)
		}()
	}
	wg.Wait()

	for _, r := range results {
		if r.err != nil {
			return fmt.Errorf("rendering slot component %s (plugin %s, %s): %w",
				Key(r.entry.Slot, r.entry.Index), r.entry.Plugin, plugin.NameOf(r.entry.Component), r.err)
		}
	}

	for _, r := range results {
		output.Debug("slot component rendered", "key", Key(r.entry.Slot, r.entry.Index),
			"plugin", r.entry.Plugin, "took", r.duration)
		if _, err := fmt.Fprintf(w, `<div class="slot-item" data-slot="%s" data-key="%s">`,
			template.HTMLEscapeString(r.entry.Slot), template.HTMLEscapeString(Key(r.entry.Slot, r.entry.Index))); err != nil {
			return err
		}
		if _, err := w.Write(r.output); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</div>"); err != nil {
			return err
		}
	}
	return nil
}

func renderEntry(ctx context.Context, e plugin.SlotEntry, props plugin.Props) result {
	start := time.Now()
	var buf bytes.Buffer
	err := e.Component.Render(ctx, &buf, props.Clone())
	return result{entry: e, output: buf.Bytes(), duration: time.Since(start), err: err}
}

type providerKey struct{}

// WithProvider returns a context carrying p for slot components rendered
// under it.
func WithProvider(ctx context.Context, p *plugin.Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// ProviderFrom returns the provider carried by ctx, or nil.
func ProviderFrom(ctx context.Context) *plugin.Provider {
	p, _ := ctx.Value(providerKey{}).(*plugin.Provider)
	return p
}

// Slot returns a component rendering the named slot of the provider carried
// by the render context. It lets one plugin's component host another slot.
func Slot(name string) plugin.Component {
	return plugin.Named{
		Name: "slot:" + name,
		Component: plugin.ComponentFunc(func(ctx context.Context, w io.Writer, props plugin.Props) error {
			return RenderSlot(ctx, w, ProviderFrom(ctx), name, props)
		}),
	}
}

// FuncMap returns html/template functions bound to ctx and p:
//
//	{{slot "shell-sidebar-footer"}}
//	{{slot "shell-main-header" .Props}}
//	{{slotKey "shell-main-header" 0}}
//
// A slot function call renders to template.HTML; render errors abort the
// template execution.
func FuncMap(ctx context.Context, p *plugin.Provider) template.FuncMap {
	return template.FuncMap{
		"slot": func(name string, props ...plugin.Props) (template.HTML, error) {
			var bag plugin.Props
			if len(props) > 0 {
				bag = props[0]
			}
			var sb strings.Builder
			if err := RenderSlot(ctx, &sb, p, name, bag); err != nil {
				return "", err
			}
			return template.HTML(sb.String()), nil
		},
		"slotKey": Key,
		"slotLen": func(name string) int {
			if p == nil {
				return 0
			}
			return len(p.SlotEntries(name))
		},
	}
}
