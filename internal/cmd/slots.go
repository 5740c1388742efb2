package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/shell"
)

// NewSlotsCmd creates the slots command.
func NewSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots [name]",
		Short: "List slot contributions",
		Long: `Load every configured plugin source and print the components contributed
to each slot, in the order the shell renders them. With a name, only that
slot is printed.

Examples:
  csp slots
  csp slots shell-main-header-right -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSlots,
	}
}

func runSlots(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return withExitCode(err)
	}

	p, err := loadProvider(cmd.Context(), GetConfig())
	if err != nil {
		return withExitCode(err)
	}

	slots := shell.Describe(p).Slots
	if len(args) == 1 {
		slots = []shell.SlotInfo{shell.DescribeSlot(p, args[0])}
	}

	w := cmd.OutOrStdout()
	if format != output.FormatTable {
		if len(args) == 1 {
			return output.Encode(w, format, slots[0])
		}
		return output.Encode(w, format, slots)
	}

	tbl := output.NewTable("SLOT", "KEY", "PLUGIN", "COMPONENT")
	for _, slot := range slots {
		for i, c := range slot.Components {
			tbl.Row(slot.Name, output.FormatSlotKey(slot.Name, i), c.Plugin, c.Component)
		}
	}
	if tbl.Len() == 0 {
		_, err := fmt.Fprintln(w, output.StyleDim.Render("No slot contributions"))
		return err
	}
	_, err = fmt.Fprintln(w, tbl.String())
	return err
}
