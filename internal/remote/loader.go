package remote

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/manifest"
	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/plugin"
)

// maxManifestBytes caps the size of a fetched manifest document.
const maxManifestBytes = 1 << 20

// Loader is a plugin.Loader that fetches one manifest document from a plugin
// server.
type Loader struct {
	name    string
	url     string
	client  *http.Client
	builder manifest.Builder
}

// NewLoader returns a loader for the manifest served at rawURL. A nil client
// uses DefaultClient.
func NewLoader(name, rawURL string, client *http.Client, b manifest.Builder) *Loader {
	return &Loader{name: name, url: rawURL, client: client, builder: b}
}

// Name implements plugin.Loader.
func (l *Loader) Name() string {
	return "remote:" + l.name
}

// URL returns the manifest URL.
func (l *Loader) URL() string {
	return l.url
}

// Load implements plugin.Loader.
func (l *Loader) Load(ctx context.Context) ([]*plugin.Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), l.url, "plugins.remotes", "remote url must be absolute")
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, text/x-cue;q=0.8")

	resp, err := client(l.client).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest from %s: %w", l.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, oerrors.NewLoadError(
			fmt.Sprintf("plugin server answered %s", resp.Status),
			l.url, map[string]string{"remote": l.name},
			fmt.Errorf("status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading manifest from %s: %w", l.url, err)
	}
	if len(data) > maxManifestBytes {
		return nil, oerrors.NewValidationError("manifest exceeds 1MiB", l.url, "", "")
	}

	doc, err := manifest.Decode(data, formatOf(l.url, resp.Header.Get("Content-Type")), l.url)
	if err != nil {
		return nil, err
	}
	if err := rejectFileRefs(doc, l.url); err != nil {
		return nil, err
	}

	m, err := l.builder.Build(doc, "", l.url)
	if err != nil {
		return nil, err
	}

	output.Debug("remote manifest fetched", "remote", l.name, "plugin", m.Name, "url", l.url)
	return []*plugin.Manifest{m}, nil
}

// formatOf picks the decoder from the URL's extension, falling back to the
// content type. YAML is the default since it also accepts JSON.
func formatOf(rawURL, contentType string) manifest.Format {
	if u, err := url.Parse(rawURL); err == nil {
		if f, ok := manifest.FormatOf(path.Base(u.Path)); ok {
			return f
		}
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/json":
		return manifest.FormatJSON
	case "text/x-cue", "application/cue":
		return manifest.FormatCUE
	default:
		return manifest.FormatYAML
	}
}

// rejectFileRefs refuses file references in remote manifests; they would
// resolve against the host's filesystem.
func rejectFileRefs(doc *manifest.Document, location string) error {
	for p, spec := range doc.Routes {
		if spec.File != "" {
			return oerrors.NewValidationError("file components are not allowed in remote manifests",
				location, "routes."+p, "serve the markup as a proxy fragment instead")
		}
	}
	for slot, spec := range doc.Slots {
		for i, c := range spec.Components {
			if c.File != "" {
				return oerrors.NewValidationError("file components are not allowed in remote manifests",
					location, fmt.Sprintf("slots.%s[%d]", slot, i), "serve the markup as a proxy fragment instead")
			}
		}
	}
	return nil
}
