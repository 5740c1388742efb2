package remote

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/manifest"
	"github.com/cspdashboard/shell/internal/plugin"
)

func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestLoader_LoadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fragments/badge" {
			w.Write([]byte("<b>VIP</b>"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
  "name": "ciam",
  "routes": {"customer-search": {"template": "<h1>Search</h1>"}},
  "slots": {"shell-main-header-right": {"component": {"proxy": "http://` + r.Host + `/fragments/badge"}}}
}`))
	}))
	defer ts.Close()

	b := manifest.Builder{Fragment: FragmentFunc(ts.Client())}
	l := NewLoader("ciam", ts.URL+"/remoteEntry", ts.Client(), b)

	manifests, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, manifests, 1)

	m := manifests[0]
	assert.Equal(t, "ciam", m.Name)
	assert.Equal(t, ts.URL+"/remoteEntry", m.Source)
	assert.Equal(t, "remote:ciam", l.Name())

	header := m.SlotComponents("shell-main-header-right")
	require.Len(t, header, 1)
	var buf bytes.Buffer
	require.NoError(t, header[0].Render(context.Background(), &buf, nil))
	assert.Equal(t, "<b>VIP</b>", buf.String())
}

func TestLoader_LoadYAMLByExtension(t *testing.T) {
	ts := serve(t, "text/plain", "name: origination\nroutes:\n  application-details:\n    template: <h1>App</h1>\n")

	l := NewLoader("origination", ts.URL+"/manifest.yaml", ts.Client(), manifest.Builder{})
	manifests, err := l.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, manifests, 1)
	assert.Equal(t, []string{"application-details"}, manifests[0].RoutePaths())
}

func TestLoader_RejectsFileRefs(t *testing.T) {
	ts := serve(t, "application/yaml", "name: sneaky\nroutes:\n  x:\n    file: /etc/passwd\n")

	_, err := NewLoader("sneaky", ts.URL, ts.Client(), manifest.Builder{}).Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Contains(t, err.Error(), "routes.x")
}

func TestLoader_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	_, err := NewLoader("gone", ts.URL, ts.Client(), manifest.Builder{}).Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrLoad)
	assert.Contains(t, err.Error(), "404")
}

func TestLoader_InvalidManifest(t *testing.T) {
	ts := serve(t, "application/json", `{"routes": {}}`)

	_, err := NewLoader("bad", ts.URL, ts.Client(), manifest.Builder{}).Load(context.Background())
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestLoader_WithLoadAll(t *testing.T) {
	ts := serve(t, "application/json", `{"name": "ciam", "routes": {"customer-search": {"template": "x"}}}`)

	reg := plugin.NewRegistry()
	err := plugin.LoadAll(context.Background(), reg,
		NewLoader("ciam", ts.URL, ts.Client(), manifest.Builder{}),
		NewLoader("broken", "http://127.0.0.1:1/unreachable", ts.Client(), manifest.Builder{}),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrLoad)
	assert.Contains(t, err.Error(), "remote:broken")
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		url, contentType string
		want             manifest.Format
	}{
		{"http://x/m.json", "", manifest.FormatJSON},
		{"http://x/m.cue", "application/json", manifest.FormatCUE},
		{"http://x/remoteEntry", "application/json; charset=utf-8", manifest.FormatJSON},
		{"http://x/remoteEntry", "text/x-cue", manifest.FormatCUE},
		{"http://x/remoteEntry", "text/plain", manifest.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.url+" "+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, formatOf(tt.url, tt.contentType))
		})
	}
}
