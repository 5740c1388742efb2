package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"sigs.k8s.io/yaml"

	oerrors "github.com/cspdashboard/shell/internal/errors"
)

//go:embed schema/manifest.cue
var schemaCUE []byte

// Format is the on-disk encoding of a manifest.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// FormatOf returns the manifest format implied by a file name's extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".cue":
		return FormatCUE, true
	default:
		return "", false
	}
}

// IsManifestFile reports whether path has a manifest file extension.
func IsManifestFile(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// DecodeFile reads and decodes the manifest at path.
func DecodeFile(path string) (*Document, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, oerrors.NewValidationError(
			"unsupported manifest file extension", path, "",
			"use .yaml, .yml, .json or .cue")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("manifest file does not exist", path, "")
		}
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("reading manifest %s: %w: %w", path, oerrors.ErrPermission, err)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	doc, err := Decode(data, format, path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode decodes a manifest document. Every format is converted to JSON and
// validated against the embedded CUE schema before it is unmarshalled, so the
// three formats accept exactly the same documents. filename is only used in
// error messages.
func Decode(data []byte, format Format, filename string) (*Document, error) {
	ctx := cuecontext.New()

	var value cue.Value
	switch format {
	case FormatYAML:
		jsonData, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, decodeError(filename, "invalid YAML", err)
		}
		value = ctx.CompileBytes(jsonData, cue.Filename(filename))
	case FormatJSON:
		value = ctx.CompileBytes(data, cue.Filename(filename))
	case FormatCUE:
		value = ctx.CompileBytes(data, cue.Filename(filename))
	default:
		return nil, decodeError(filename, fmt.Sprintf("unknown manifest format %q", format), nil)
	}
	if err := value.Err(); err != nil {
		return nil, decodeError(filename, "manifest does not parse", err)
	}

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("manifest.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling manifest schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Manifest"))

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, decodeError(filename, "manifest does not match schema", err)
	}

	jsonData, err := unified.MarshalJSON()
	if err != nil {
		return nil, decodeError(filename, "manifest cannot be exported", err)
	}

	var doc Document
	if err := strictUnmarshal(jsonData, &doc); err != nil {
		return nil, decodeError(filename, "manifest has an invalid shape", err)
	}
	return &doc, nil
}

func decodeError(filename, message string, cause error) error {
	detail := &oerrors.DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: filename,
		Cause:    oerrors.ErrValidation,
	}
	if cause != nil {
		detail.Message = message + ": " + strings.TrimSpace(cueerrors.Details(cause, nil))
		detail.Cause = fmt.Errorf("%w: %w", oerrors.ErrValidation, cause)
	}
	return detail
}
