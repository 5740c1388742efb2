package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/plugin"
)

// LoadFile decodes and builds the manifest file at path.
func LoadFile(path string, b Builder) (*plugin.Manifest, error) {
	doc, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return b.Build(doc, filepath.Dir(path), path)
}

// DirLoader is a plugin.Loader over one directory of manifest files. Files
// are loaded in lexical order; subdirectories are not descended into.
type DirLoader struct {
	dir     string
	builder Builder
}

// NewDirLoader returns a loader for the manifests in dir.
func NewDirLoader(dir string, b Builder) *DirLoader {
	return &DirLoader{dir: dir, builder: b}
}

// Dir returns the directory the loader reads.
func (l *DirLoader) Dir() string {
	return l.dir
}

// Name implements plugin.Loader.
func (l *DirLoader) Name() string {
	return "dir:" + l.dir
}

// Load implements plugin.Loader. Any invalid manifest fails the whole
// directory.
func (l *DirLoader) Load(ctx context.Context) ([]*plugin.Manifest, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("plugin directory does not exist", l.dir,
				"create it or remove it from plugins.dirs")
		}
		return nil, fmt.Errorf("reading plugin directory %s: %w", l.dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsManifestFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(l.dir, e.Name()))
	}
	sort.Strings(paths)

	manifests := make([]*plugin.Manifest, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := LoadFile(path, l.builder)
		if err != nil {
			return nil, err
		}
		output.Debug("manifest loaded", "plugin", m.Name, "file", path)
		manifests = append(manifests, m)
	}
	return manifests, nil
}
