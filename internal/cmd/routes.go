package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/plugin"
	"github.com/cspdashboard/shell/internal/shell"
)

// NewRoutesCmd creates the routes command.
func NewRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the composed route table",
		Long: `Load every configured plugin source and print the composed route table.

When two plugins declare the same path, the plugin merged later owns it.
The PLUGIN column shows the owner the shell will mount.`,
		Args: cobra.NoArgs,
		RunE: runRoutes,
	}
}

func runRoutes(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return withExitCode(err)
	}

	p, err := loadProvider(cmd.Context(), GetConfig())
	if err != nil {
		return withExitCode(err)
	}

	routes := shell.Describe(p).Routes
	w := cmd.OutOrStdout()
	if format != output.FormatTable {
		return output.Encode(w, format, routes)
	}

	if len(routes) == 0 {
		_, err := fmt.Fprintln(w, output.StyleDim.Render("No routes registered"))
		return err
	}

	overridden := overriddenRoutes(p)
	tbl := output.NewTable("PATH", "PLUGIN", "COMPONENT", "OVERRIDES")
	for _, r := range routes {
		tbl.Row("/"+strings.TrimPrefix(r.Path, "/"), output.StyleNoun.Render(r.Plugin), r.Component,
			output.StyleOverride.Render(strings.Join(overridden[r.Path], ", ")))
	}
	_, err = fmt.Fprintln(w, tbl.String())
	return err
}

// overriddenRoutes maps each owned path to the plugins whose declaration of
// it, or of a path matching the same URLs, lost to the owner, in snapshot
// order.
func overriddenRoutes(p *plugin.Provider) map[string][]string {
	out := make(map[string][]string)
	for _, m := range p.Manifests() {
		for _, path := range m.RoutePaths() {
			owner, ok := p.Routes().Lookup(path)
			if !ok || owner.Plugin == m.Name {
				continue
			}
			if !slices.Contains(out[owner.Path], m.Name) {
				out[owner.Path] = append(out[owner.Path], m.Name)
			}
		}
	}
	return out
}
