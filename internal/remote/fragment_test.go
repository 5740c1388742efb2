package remote

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/plugin"
)

func TestFragment_Render(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		fmt.Fprintf(w, "<p>customer %s</p>", r.URL.Query().Get("customerId"))
	}))
	defer ts.Close()

	f := NewFragment(ts.URL+"/timeline", ts.Client())
	var buf bytes.Buffer
	err := f.Render(context.Background(), &buf, plugin.Props{
		"params": map[string]string{"customerId": "42"},
	})

	require.NoError(t, err)
	assert.Equal(t, "<p>customer 42</p>", buf.String())
	assert.Equal(t, "proxy:"+ts.URL+"/timeline", plugin.NameOf(f))
}

func TestFragment_NonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer ts.Close()

	var buf bytes.Buffer
	err := NewFragment(ts.URL, ts.Client()).Render(context.Background(), &buf, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Empty(t, buf.String())
}

func TestFragment_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewFragment(ts.URL, ts.Client()).Render(ctx, &buf, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithParams(t *testing.T) {
	got, err := withParams("http://plugins.local/frag?x=1", plugin.Props{
		"params": map[string]string{"b": "2", "a": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://plugins.local/frag?a=1&b=2&x=1", got)

	got, err = withParams("http://plugins.local/frag", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://plugins.local/frag", got)
}

func TestFragmentFunc(t *testing.T) {
	c := FragmentFunc(nil)("http://plugins.local/frag")
	f, ok := c.(*Fragment)
	require.True(t, ok)
	assert.Equal(t, "http://plugins.local/frag", f.URL)
	assert.Same(t, DefaultClient, client(f.Client))
}

func TestFragment_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"at limit", maxFragmentBytes, false},
		{"over limit", maxFragmentBytes + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(strings.Repeat("x", tt.size)))
			}))
			defer ts.Close()

			var buf bytes.Buffer
			err := NewFragment(ts.URL, ts.Client()).Render(context.Background(), &buf, plugin.Props{})

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, oerrors.ErrLoad)
				assert.Zero(t, buf.Len(), "nothing of an oversized fragment is written")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, buf.Len())
		})
	}
}
