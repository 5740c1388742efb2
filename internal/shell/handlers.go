package shell

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/plugin"
	"github.com/cspdashboard/shell/internal/render"
	"github.com/cspdashboard/shell/internal/templates"
)

// handlePage renders the routed component inside the layout. Unknown paths
// render the not-found fragment with status 404.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.current.Load()
	path := strings.Trim(r.URL.Path, "/")
	ctx := render.WithProvider(r.Context(), st.provider)

	data := templates.PageData{
		Title:       s.opts.Title,
		Path:        path,
		Status:      http.StatusOK,
		Navigations: st.provider.Navigations(),
		SnapshotID:  st.provider.ID(),
	}

	var content bytes.Buffer
	route, params, ok := st.router.Match(r.URL.Path)
	data.Props = requestProps(r, path, params)

	switch {
	case !ok:
		data.Status = http.StatusNotFound
		if err := s.page.Fragment(&content, "notfound", data); err != nil {
			s.fail(w, err)
			return
		}
	default:
		if err := route.Component.Render(ctx, &content, data.Props.Clone()); err != nil {
			output.PluginLogger(route.Plugin).Error("route component failed", "path", route.Path,
				"component", plugin.NameOf(route.Component), "error", err)
			data.Status = http.StatusInternalServerError
			content.Reset()
			msg := fmt.Sprintf("The %s plugin could not render this page.", route.Plugin)
			if err := s.page.Fragment(&content, "error", map[string]string{"Message": msg}); err != nil {
				s.fail(w, err)
				return
			}
		}
	}
	data.Content = template.HTML(content.String())

	var body bytes.Buffer
	if err := s.page.Execute(&body, data, render.FuncMap(ctx, st.provider)); err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(data.Status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body.Bytes())
}

// AgentHeader carries the signed-in agent's display name, set by the
// authenticating proxy in front of the shell.
const AgentHeader = "X-Forwarded-User"

// requestProps builds the property bag for one request: the first value of
// each query parameter, then "agent", "path" and "params", which take
// precedence.
func requestProps(r *http.Request, path string, params map[string]string) plugin.Props {
	props := plugin.Props{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			props[key] = values[0]
		}
	}
	if params == nil {
		params = map[string]string{}
	}
	if agent := r.Header.Get(AgentHeader); agent != "" {
		props["agent"] = agent
	} else {
		delete(props, "agent")
	}
	props["path"] = path
	props["params"] = params
	return props
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	output.Error("page render failed", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Describe(s.Provider()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	p := s.Provider()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"snapshot": p.ID(),
		"plugins":  len(p.Manifests()),
		"routes":   p.Routes().Len(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.opts.Reload == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "reload is not configured"})
		return
	}

	previous := s.Provider().ID()
	p, diff, err := s.Reload(r.Context())
	if err != nil {
		output.Error("reload failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": p.ID(),
		"previous": previous,
		"plugins":  len(p.Manifests()),
		"diff":     diff,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
