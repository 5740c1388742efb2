package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/shell"
)

// NewPluginsCmd creates the plugins command group.
func NewPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect plugins",
		Long:  `Inspect the plugins csp would serve with the current configuration.`,
	}

	cmd.AddCommand(NewPluginsListCmd())

	return cmd
}

// NewPluginsListCmd creates the plugins list command.
func NewPluginsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List loaded plugins",
		Long: `Load every configured plugin source and list the resulting plugins in
snapshot order.

Examples:
  csp plugins list --plugins-dir ./plugins
  csp plugins list -o yaml`,
		Args: cobra.NoArgs,
		RunE: runPluginsList,
	}
}

func runPluginsList(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return withExitCode(err)
	}

	p, err := loadProvider(cmd.Context(), GetConfig())
	if err != nil {
		return withExitCode(err)
	}

	plugins := shell.Describe(p).Plugins
	w := cmd.OutOrStdout()
	if format != output.FormatTable {
		return output.Encode(w, format, plugins)
	}

	tbl := output.NewTable("NAME", "SOURCE", "ROUTES", "SLOTS")
	for _, info := range plugins {
		tbl.Row(
			output.StyleNoun.Render(info.Name),
			info.Source,
			strconv.Itoa(len(info.Routes)),
			strings.Join(info.Slots, ", "),
		)
	}
	if _, err := fmt.Fprintln(w, tbl.String()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, output.StyleSummary.Render(
		fmt.Sprintf("%d plugins, %d routes, snapshot %s", len(plugins), p.Routes().Len(), p.ID())))
	return err
}
