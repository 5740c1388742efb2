package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cspdashboard/shell/internal/config"
	"github.com/cspdashboard/shell/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the csp configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML matching the config schema
  3. Field values are valid (listen address, layout, remote names and URLs)

The config path is resolved using precedence:
  --config flag > CSP_CONFIG env > ~/.csp/config.yaml

Examples:
  # Validate default configuration
  csp config vet

  # Validate custom config path
  csp config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}

	return cmd
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	resolved, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return withExitCode(err)
	}

	output.Debug("validating config",
		"path", resolved.Value,
		"source", resolved.Source,
	)

	validator, err := config.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateFile(resolved.Value); err != nil {
		return withExitCode(err)
	}

	output.Println(output.FormatCheckmark("Configuration is valid: " + resolved.Value))
	return nil
}
