package cli

import (
	"github.com/spf13/cobra"

	"github.com/petal-labs/petalskill/loader"
)

// NewDescribeCmd creates the "describe" command.
func NewDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Emit a skill manifest for host discovery",
		RunE:  runDescribe,
	}
	addSkillFlag(cmd)
	cmd.Flags().String("format", "json", "Output format: json | yaml")
	return cmd
}

func runDescribe(cmd *cobra.Command, args []string) error {
	def, err := resolveDefinition(cmd)
	if err != nil {
		return err
	}
	manifest := loader.Describe(def)

	format, _ := cmd.Flags().GetString("format")
	var data []byte
	switch format {
	case "json":
		data, err = manifest.JSON()
	case "yaml":
		data, err = manifest.YAML()
	default:
		return exitError(exitInputParse, "unknown format %q (expected json or yaml)", format)
	}
	if err != nil {
		return exitError(exitRuntime, "%s", err)
	}

	out := cmd.OutOrStdout()
	if _, err := out.Write(data); err != nil {
		return exitError(exitRuntime, "writing manifest: %v", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, _ = out.Write([]byte{'\n'})
	}
	return nil
}
