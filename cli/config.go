package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewConfigCmd creates the "config" command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect skill configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show resolved configuration with overrides applied",
		RunE:  runConfigShow,
	}
	addSkillFlag(cmd)
	addValuesFlags(cmd)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	inst, err := buildInstance(cmd)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "KEY\tVALUE\tDEFAULT\tDESCRIPTION")
	for _, opt := range inst.Definition().ConfigOptions() {
		value, _ := inst.Config(opt.Key)
		fmt.Fprintf(writer, "%s\t%v\t%v\t%s\n", opt.Key, value, opt.Default, opt.Description)
	}
	return writer.Flush()
}
