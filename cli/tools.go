package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/petal-labs/petalskill"
)

// NewToolsCmd creates the "tools" command group.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect skill tools",
	}
	cmd.AddCommand(newToolsListCmd())
	return cmd
}

func newToolsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tools a skill exposes",
		RunE:  runToolsList,
	}
	addSkillFlag(cmd)
	return cmd
}

func runToolsList(cmd *cobra.Command, args []string) error {
	def, err := resolveDefinition(cmd)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "TOOL\tPARAMETERS\tDESCRIPTION")
	for _, tool := range def.Tools() {
		params := strings.Join(describeParameters(tool), ", ")
		if params == "" {
			params = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", tool.Name, params, tool.Description)
	}
	return writer.Flush()
}

func describeParameters(tool petalskill.Tool) []string {
	out := make([]string, 0, len(tool.Parameters))
	for _, param := range tool.Parameters {
		desc := fmt.Sprintf("%s:%s", param.Name, param.Type)
		if !param.Required {
			desc += "?"
		}
		out = append(out, desc)
	}
	return out
}
