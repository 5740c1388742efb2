package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"sigs.k8s.io/yaml"

	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/templates"
)

//go:embed schema/config.cue
var configSchemaCUE []byte

// remoteNameRegex matches the names accepted for remotes.
var remoteNameRegex = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap lets errors.Is match ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(configSchemaCUE, cue.Filename("config.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema.LookupPath(cue.ParsePath("#Config")),
	}, nil
}

// Validate checks the fields of a loaded configuration.
func (v *Validator) Validate(cfg *Config) error {
	var errs ValidationErrors

	if addr := cfg.Server.Address; addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.address",
				Message: "must be host:port or :port",
			})
		}
	}

	if cfg.Server.ReadHeaderTimeout < 0 {
		errs = append(errs, ValidationError{Field: "server.readHeaderTimeout", Message: "must not be negative"})
	}
	if cfg.Server.ShutdownTimeout < 0 {
		errs = append(errs, ValidationError{Field: "server.shutdownTimeout", Message: "must not be negative"})
	}

	if cfg.Server.Layout != "" {
		if _, err := templates.Get(cfg.Server.Layout); err != nil {
			errs = append(errs, ValidationError{Field: "server.layout", Message: err.Error()})
		}
	}

	for i, dir := range cfg.Plugins.Dirs {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("plugins.dirs[%d]", i),
				Message: "must not be empty or whitespace only",
			})
		}
	}

	seen := make(map[string]bool)
	for i, r := range cfg.Plugins.Remotes {
		field := fmt.Sprintf("plugins.remotes[%d]", i)
		if !remoteNameRegex.MatchString(r.Name) {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "must be lowercase alphanumeric with hyphens",
			})
		} else if seen[r.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate remote %q", r.Name),
			})
		}
		seen[r.Name] = true

		u, err := url.Parse(r.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".url",
				Message: "must be an absolute http or https URL",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateSchema checks a YAML config document against the CUE schema.
func (v *Validator) ValidateSchema(data []byte, filename string) error {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return oerrors.NewValidationError("config is not valid YAML: "+err.Error(), filename, "", "")
	}
	if trimmed := bytes.TrimSpace(jsonData); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		jsonData = []byte("{}")
	}

	value := v.ctx.CompileBytes(jsonData, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return oerrors.NewValidationError("config does not parse", filename, "", "")
	}

	if err := v.schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "config does not match schema: " + strings.TrimSpace(cueerrors.Details(err, nil)),
			Location: filename,
			Hint:     "Run 'csp config init --force' to regenerate a valid config.",
			Cause:    fmt.Errorf("%w: %w", oerrors.ErrValidation, err),
		}
	}
	return nil
}

// ValidateFile validates a configuration file at the given path: first its
// shape against the schema, then the loaded values.
func (v *Validator) ValidateFile(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return oerrors.NewNotFoundError("config file does not exist", expanded,
				"Run 'csp config init' to create one.")
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := v.ValidateSchema(data, expanded); err != nil {
		return err
	}

	cfg, err := NewLoader().Load(expanded)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}

	return v.Validate(cfg)
}
