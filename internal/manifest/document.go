// Package manifest decodes plugin manifests authored as files (YAML, JSON or
// CUE) and builds them into plugin.Manifest values backed by real components.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/plugin"
)

// Document is the on-disk form of a manifest.
type Document struct {
	Name        string                   `json:"name"`
	Routes      map[string]ComponentSpec `json:"routes,omitempty"`
	Slots       map[string]SlotSpec      `json:"slots,omitempty"`
	Navigations []plugin.Navigation      `json:"navigations,omitempty"`
}

// ComponentSpec references a component. Exactly one field must be set.
type ComponentSpec struct {
	// Template is inline html/template source.
	Template string `json:"template,omitempty"`

	// File is a template file, relative to the manifest's directory.
	File string `json:"file,omitempty"`

	// Builtin names a component of the host's Catalog.
	Builtin string `json:"builtin,omitempty"`

	// Proxy is the URL of an HTML fragment served by the plugin's own server.
	Proxy string `json:"proxy,omitempty"`
}

// Kind returns which reference field is set, or "" when none or several are.
func (c ComponentSpec) Kind() string {
	var kind string
	set := 0
	for _, f := range []struct{ name, value string }{
		{"template", c.Template},
		{"file", c.File},
		{"builtin", c.Builtin},
		{"proxy", c.Proxy},
	} {
		if f.value != "" {
			kind = f.name
			set++
		}
	}
	if set != 1 {
		return ""
	}
	return kind
}

// SlotSpec is a slot contribution in either of its two authored shapes:
//
//	shell-sidebar-footer: [{builtin: Support}]        # list
//	shell-main-header-right: {component: {builtin: AgentDropDown}}  # single
//
// Any other shape is rejected while decoding.
type SlotSpec struct {
	Kind       plugin.SlotKind
	Components []ComponentSpec
}

// UnmarshalJSON decodes either shape into the tagged form.
func (s *SlotSpec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty slot value: %w", oerrors.ErrValidation)
	}

	switch trimmed[0] {
	case '[':
		var list []ComponentSpec
		if err := strictUnmarshal(trimmed, &list); err != nil {
			return err
		}
		*s = SlotSpec{Kind: plugin.SlotKindList, Components: list}
		return nil
	case '{':
		var single struct {
			Component *ComponentSpec `json:"component"`
		}
		if err := strictUnmarshal(trimmed, &single); err != nil {
			return fmt.Errorf("slot object must only have a component field: %w: %w", oerrors.ErrValidation, err)
		}
		if single.Component == nil {
			return fmt.Errorf("slot object is missing its component: %w", oerrors.ErrValidation)
		}
		*s = SlotSpec{Kind: plugin.SlotKindSingle, Components: []ComponentSpec{*single.Component}}
		return nil
	default:
		return fmt.Errorf("slot must be a list of components or {component: ...}, got %s: %w",
			trimmed, oerrors.ErrValidation)
	}
}

// MarshalJSON encodes the slot in the shape it was authored in.
func (s SlotSpec) MarshalJSON() ([]byte, error) {
	if s.Kind == plugin.SlotKindSingle && len(s.Components) == 1 {
		return json.Marshal(map[string]ComponentSpec{"component": s.Components[0]})
	}
	list := s.Components
	if list == nil {
		list = []ComponentSpec{}
	}
	return json.Marshal(list)
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
