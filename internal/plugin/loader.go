package plugin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/output"
)

// Loader produces manifests from one plugin source: compiled-in plugins, a
// directory of manifest files, a remote plugin server.
type Loader interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Load returns the manifests the source currently offers. It must honour
	// ctx cancellation.
	Load(ctx context.Context) ([]*Manifest, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc struct {
	ID string
	Fn func(ctx context.Context) ([]*Manifest, error)
}

// Name implements Loader.
func (l LoaderFunc) Name() string { return l.ID }

// Load implements Loader.
func (l LoaderFunc) Load(ctx context.Context) ([]*Manifest, error) { return l.Fn(ctx) }

// StaticLoader returns a Loader that yields the given in-process manifests.
func StaticLoader(name string, manifests ...*Manifest) Loader {
	return LoaderFunc{
		ID: name,
		Fn: func(context.Context) ([]*Manifest, error) {
			out := make([]*Manifest, len(manifests))
			copy(out, manifests)
			return out, nil
		},
	}
}

// LoadAll runs every loader concurrently and registers each loader's
// manifests into reg as soon as that loader finishes. Registration order is
// therefore completion order, not argument order; callers must not rely on
// the relative order of manifests from different loaders.
//
// The first loader error cancels the context handed to the remaining loaders
// and is returned. Manifests of loaders that completed before the failure stay
// registered. A provider must only be built after LoadAll has returned.
func LoadAll(ctx context.Context, reg *Registry, loaders ...Loader) error {
	if reg == nil {
		return fmt.Errorf("load plugins: %w", oerrors.ErrValidation)
	}

	var batch sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range loaders {
		if l == nil {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			manifests, err := l.Load(gctx)
			if err != nil {
				output.Debug("plugin source failed", "source", l.Name(), "error", err)
				return fmt.Errorf("load plugins from %q: %w: %w", l.Name(), oerrors.ErrLoad, err)
			}

			// Keep one source's manifests contiguous in the registry.
			batch.Lock()
			for _, m := range manifests {
				reg.Register(m)
			}
			batch.Unlock()

			output.Debug("plugin source loaded", "source", l.Name(),
				"manifests", len(manifests), "took", time.Since(start).Round(time.Millisecond))
			return nil
		})
	}
	return g.Wait()
}
