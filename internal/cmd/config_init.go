package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cspdashboard/shell/internal/config"
	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/output"
)

var configInitForce bool

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the csp configuration.

Creates ~/.csp/config.yaml with the default server and plugin settings and
an empty ~/.csp/plugins directory for manifest files.

Examples:
  # Initialize configuration
  csp config init

  # Overwrite existing configuration
  csp config init --force`,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return withExitCode(oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory"))
	}

	exists, err := config.ConfigFileExists(paths.ConfigFile)
	if err != nil {
		return withExitCode(fmt.Errorf("checking %s: %w", paths.ConfigFile, err))
	}
	if exists && !configInitForce {
		return withExitCode(&oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: paths.ConfigFile,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		})
	}

	// Directories 0700, files 0600
	if err := os.MkdirAll(paths.HomeDir, 0o700); err != nil {
		return withExitCode(oerrors.Wrap(oerrors.ErrPermission, "could not create ~/.csp directory"))
	}
	if err := os.MkdirAll(paths.PluginsDir, 0o700); err != nil {
		return withExitCode(oerrors.Wrap(oerrors.ErrPermission, "could not create ~/.csp/plugins directory"))
	}
	if err := os.WriteFile(paths.ConfigFile, []byte(config.DefaultConfigTemplate), 0o600); err != nil {
		return withExitCode(oerrors.Wrap(oerrors.ErrPermission, "could not write config.yaml"))
	}

	output.Println(output.FormatCheckmark("Configuration initialized at " + paths.HomeDir))
	output.Println("")
	output.Println("Created:")
	output.Println("  " + paths.ConfigFile)
	output.Println("  " + paths.PluginsDir + "/")
	output.Println("")
	output.Println("Validate with: csp config vet")

	return nil
}
