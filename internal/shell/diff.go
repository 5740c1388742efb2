package shell

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"

	"github.com/cspdashboard/shell/internal/plugin"
)

// SnapshotDiff describes what changed between two provider snapshots.
type SnapshotDiff struct {
	// Changes is the number of differences found.
	Changes int `json:"changes"`

	// Report is the human readable report, empty when nothing changed.
	Report string `json:"report,omitempty"`
}

// diffView is the part of a snapshot that is compared. Identity and creation
// time differ on every snapshot and are left out; entries are keyed by name
// so the report points at the route, slot or plugin that changed.
type diffView struct {
	Plugins map[string]diffPlugin `json:"plugins"`
	Routes  map[string]diffRoute  `json:"routes"`
	Slots   map[string][]string   `json:"slots"`
	Nav     []NavigationInfo      `json:"navigations,omitempty"`
}

type diffPlugin struct {
	Source string   `json:"source,omitempty"`
	Routes []string `json:"routes,omitempty"`
	Slots  []string `json:"slots,omitempty"`
}

type diffRoute struct {
	Plugin    string `json:"plugin"`
	Component string `json:"component"`
}

func newDiffView(s Snapshot) diffView {
	v := diffView{
		Plugins: make(map[string]diffPlugin, len(s.Plugins)),
		Routes:  make(map[string]diffRoute, len(s.Routes)),
		Slots:   make(map[string][]string, len(s.Slots)),
		Nav:     s.Navigations,
	}
	for _, p := range s.Plugins {
		v.Plugins[p.Name] = diffPlugin{Source: p.Source, Routes: p.Routes, Slots: p.Slots}
	}
	for _, r := range s.Routes {
		v.Routes[r.Path] = diffRoute{Plugin: r.Plugin, Component: r.Component}
	}
	for _, slot := range s.Slots {
		entries := make([]string, 0, len(slot.Components))
		for _, c := range slot.Components {
			entries = append(entries, c.Plugin+"/"+c.Component)
		}
		v.Slots[slot.Name] = entries
	}
	return v
}

// DiffProviders compares the plugins, routes, slots and navigation of two
// snapshots. A nil previous snapshot compares as empty.
func DiffProviders(previous, next *plugin.Provider) (SnapshotDiff, error) {
	var before Snapshot
	if previous != nil {
		before = Describe(previous)
	}
	return DiffSnapshots(before, Describe(next))
}

// DiffSnapshots compares two described snapshots.
func DiffSnapshots(previous, next Snapshot) (SnapshotDiff, error) {
	from, err := snapshotInput("previous", previous)
	if err != nil {
		return SnapshotDiff{}, err
	}
	to, err := snapshotInput("next", next)
	if err != nil {
		return SnapshotDiff{}, err
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return SnapshotDiff{}, fmt.Errorf("comparing snapshots: %w", err)
	}
	if len(report.Diffs) == 0 {
		return SnapshotDiff{}, nil
	}

	text, err := renderReport(report)
	if err != nil {
		return SnapshotDiff{}, err
	}
	return SnapshotDiff{Changes: len(report.Diffs), Report: text}, nil
}

func snapshotInput(name string, s Snapshot) (ytbx.InputFile, error) {
	data, err := yaml.Marshal(newDiffView(s))
	if err != nil {
		return ytbx.InputFile{}, fmt.Errorf("serializing %s snapshot: %w", name, err)
	}
	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, fmt.Errorf("parsing %s snapshot: %w", name, err)
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

func renderReport(report dyff.Report) (string, error) {
	var buf bytes.Buffer
	w := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      true,
		OmitHeader:        true,
	}
	if err := w.WriteReport(&buf); err != nil {
		return "", fmt.Errorf("writing snapshot diff: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
