package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show csp version information.

Displays:
  - csp version, commit, and build date
  - Go version and the CUE SDK used for manifest validation`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	w := cmd.OutOrStdout()

	format, ok := output.ParseOutputFormat(outputFormatFlag)
	if ok && format != output.FormatTable {
		return output.Encode(w, format, info)
	}

	_, err := fmt.Fprintln(w, info.String())
	return err
}
