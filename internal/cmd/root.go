package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cspdashboard/shell/internal/config"
	oerrors "github.com/cspdashboard/shell/internal/errors"
	"github.com/cspdashboard/shell/internal/output"
)

var (
	// Global flags
	configFlag       string
	outputFormatFlag string
	verboseFlag      bool
	timestampsFlag   bool
	pluginDirsFlag   []string

	// Loaded during PersistentPreRunE.
	loadedConfig *config.Config
	configPath   config.ResolvedValue
)

// NewRootCmd creates the root command for csp.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "csp",
		Short: "Customer support portal shell",
		Long: `csp composes the customer support portal from plugins.

Plugins contribute routes and slot components through manifests. They are
loaded from compiled-in sources, manifest directories and remote plugin
servers, merged into one registry, and served by the shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: CSP_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&outputFormatFlag, "output", "o", "table", "Output format: table, yaml, json")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")
	rootCmd.PersistentFlags().StringSliceVar(&pluginDirsFlag, "plugins-dir", nil, "Directory of plugin manifests, repeatable (env: CSP_PLUGIN_DIRS)")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewPluginsCmd())
	rootCmd.AddCommand(NewRoutesCmd())
	rootCmd.AddCommand(NewSlotsCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(cmd *cobra.Command) error {
	resolvedPath, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return err
	}
	configPath = resolvedPath

	cfg, err := config.NewLoader().LoadWithDefaults(configPath.Value)
	if err != nil {
		output.Debug("config load error", "error", err)
		// Don't fail here - commands like config init must work with a broken file
		cfg = config.DefaultConfig()
	}
	loadedConfig = cfg

	logCfg := output.LogConfig{
		Verbose: verboseFlag,
	}

	// Resolve timestamps: flag (if explicitly set) > config > default
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else {
		logCfg.Timestamps = cfg.Log.Timestamps
	}

	output.SetupLogging(logCfg)

	if verboseFlag {
		config.LogResolvedValues(configPath)
	}

	return nil
}

// GetConfig returns the loaded configuration with defaults applied.
func GetConfig() *config.Config {
	if loadedConfig == nil {
		return config.DefaultConfig()
	}
	return loadedConfig
}

// GetConfigPath returns the resolved config path value.
func GetConfigPath() string {
	if configPath.Value != "" {
		return configPath.Value
	}
	return configFlag
}

// outputFormat parses the --output flag.
func outputFormat() (output.OutputFormat, error) {
	format, ok := output.ParseOutputFormat(outputFormatFlag)
	if !ok {
		return "", oerrors.NewValidationError(
			fmt.Sprintf("unknown output format %q", outputFormatFlag), "", "output",
			"use one of: "+strings.Join(output.ValidFormats(), ", "))
	}
	return format, nil
}
