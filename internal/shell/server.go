// Package shell serves the composed dashboard: it mounts the routes of a
// provider snapshot under one layout, renders the layout's slots, and exposes
// introspection and reload endpoints.
package shell

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/plugin"
	"github.com/cspdashboard/shell/internal/render"
	"github.com/cspdashboard/shell/internal/templates"
)

// DefaultTitle is the document title used when none is configured.
const DefaultTitle = "CSP Dashboard"

// ReloadFunc builds a fresh provider snapshot.
type ReloadFunc func(ctx context.Context) (*plugin.Provider, error)

// Options configures a Server.
type Options struct {
	// Address is the listen address, e.g. ":8080".
	Address string

	// Title is the document title.
	Title string

	// Layout selects the page layout. Empty means the default layout.
	Layout templates.LayoutName

	// ReadHeaderTimeout bounds reading request headers.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// Reload backs POST /-/reload. Nil disables the endpoint.
	Reload ReloadFunc
}

// state is what one request is served from. It is swapped as a whole so a
// request never mixes two snapshots.
type state struct {
	provider *plugin.Provider
	router   *Router
}

// Server serves one provider snapshot at a time.
type Server struct {
	opts    Options
	page    *templates.Page
	current atomic.Pointer[state]
	swapMu  sync.Mutex
}

// New returns a server for p.
func New(p *plugin.Provider, opts Options) (*Server, error) {
	if p == nil {
		return nil, errors.New("shell: nil provider")
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Layout == "" {
		opts.Layout = templates.LayoutName(templates.GetDefault().Name)
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 5 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	page, err := templates.Parse(opts.Layout, render.FuncMap(context.Background(), nil))
	if err != nil {
		return nil, err
	}

	s := &Server{opts: opts, page: page}
	s.SetProvider(p)
	return s, nil
}

// Provider returns the snapshot currently served.
func (s *Server) Provider() *plugin.Provider {
	return s.current.Load().provider
}

// SetProvider atomically replaces the served snapshot. Requests already in
// flight finish with the snapshot they started with. It does not wait for a
// running Reload or Update; use Update when both can happen.
func (s *Server) SetProvider(p *plugin.Provider) {
	s.current.Store(&state{provider: p, router: NewRouter(p.Routes())})
	output.Debug("serving snapshot", "snapshot", p.ID(), "routes", p.Routes().Len())
}

// Reload builds a new snapshot with the configured ReloadFunc and serves it.
// Reloads and updates are serialized, so the snapshot built last is the one
// served.
func (s *Server) Reload(ctx context.Context) (*plugin.Provider, SnapshotDiff, error) {
	if s.opts.Reload == nil {
		return nil, SnapshotDiff{}, errors.New("reload is not configured")
	}

	s.swapMu.Lock()
	defer s.swapMu.Unlock()

	p, err := s.opts.Reload(ctx)
	if err != nil {
		return nil, SnapshotDiff{}, fmt.Errorf("reloading plugins: %w", err)
	}
	diff := s.swap(p, "reload")
	output.Info("plugins reloaded", "snapshot", p.ID(), "plugins", len(p.Manifests()), "changes", diff.Changes)
	return p, diff, nil
}

// Update serves the snapshot returned by build. build runs under the same
// lock as Reload.
func (s *Server) Update(reason string, build func() *plugin.Provider) *plugin.Provider {
	s.swapMu.Lock()
	defer s.swapMu.Unlock()

	p := build()
	s.swap(p, reason)
	return p
}

// swap serves p and logs how it differs from the snapshot it replaces.
// Callers hold swapMu.
func (s *Server) swap(p *plugin.Provider, reason string) SnapshotDiff {
	previous := s.Provider()
	diff, err := DiffProviders(previous, p)
	s.SetProvider(p)
	if err != nil {
		output.Warn("could not diff plugin snapshots", "error", err)
		return SnapshotDiff{}
	}
	if diff.Changes > 0 {
		output.Info("plugin snapshot changed", "reason", reason, "snapshot", p.ID(),
			"previous", previous.ID(), "changes", diff.Changes, "diff", diff.Report)
	}
	return diff
}

// Handler returns the server's HTTP handler. Requests are refused once ctx
// is done.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /-/healthz", s.handleHealth)
	mux.HandleFunc("GET /-/plugins", s.handlePlugins)
	mux.HandleFunc("POST /-/reload", s.handleReload)
	mux.HandleFunc("/", s.handlePage)
	return withContext(ctx, withLogging(mux))
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. A
// shutdown triggered by ctx returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	output.Info("shell listening", "address", ln.Addr().String(), "snapshot", s.Provider().ID())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		<-errCh
		output.Info("shell stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
