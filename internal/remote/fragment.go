// Package remote loads plugins served over HTTP: manifests fetched from a
// plugin server and HTML fragments the server renders on request.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/plugin"
)

// maxFragmentBytes caps the size of a fragment response.
const maxFragmentBytes = 4 << 20

// DefaultClient is used when no client is configured.
var DefaultClient = &http.Client{Timeout: 10 * time.Second}

// Fragment is a component whose markup is rendered by a remote plugin
// server. Route parameters found in props["params"] are forwarded as query
// parameters.
type Fragment struct {
	URL    string
	Client *http.Client
}

// NewFragment returns a fragment component for rawURL.
func NewFragment(rawURL string, client *http.Client) *Fragment {
	return &Fragment{URL: rawURL, Client: client}
}

// FragmentFunc returns a constructor suitable for manifest.Builder.Fragment.
func FragmentFunc(client *http.Client) func(string) plugin.Component {
	return func(rawURL string) plugin.Component {
		return NewFragment(rawURL, client)
	}
}

// ComponentName implements the naming hook used by plugin.NameOf.
func (f *Fragment) ComponentName() string {
	return "proxy:" + f.URL
}

// Render implements plugin.Component.
func (f *Fragment) Render(ctx context.Context, w io.Writer, props plugin.Props) error {
	target, err := withParams(f.URL, props)
	if err != nil {
		return fmt.Errorf("fragment url %q: %w: %w", f.URL, oerrors.ErrValidation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating fragment request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client(f.Client).Do(req)
	if err != nil {
		return fmt.Errorf("fetching fragment %s: %w", f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetching fragment %s: unexpected status %s", f.URL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFragmentBytes+1))
	if err != nil {
		return fmt.Errorf("reading fragment %s: %w", f.URL, err)
	}
	if len(data) > maxFragmentBytes {
		return fmt.Errorf("fragment %s exceeds %d bytes: %w", f.URL, maxFragmentBytes, oerrors.ErrLoad)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing fragment %s: %w", f.URL, err)
	}
	return nil
}

func withParams(rawURL string, props plugin.Props) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	params, _ := props["params"].(map[string]string)
	if len(params) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, params[k])
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func client(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return DefaultClient
}
