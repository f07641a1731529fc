package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/petalskill"
	"github.com/petal-labs/petalskill/audit"
)

// NewInvokeCmd creates the "invoke" command.
func NewInvokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke <tool>",
		Short: "Invoke a skill tool and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runInvoke,
	}
	addSkillFlag(cmd)
	addValuesFlags(cmd)
	cmd.Flags().StringArray("arg", nil, "Tool argument KEY=VALUE (repeatable)")
	cmd.Flags().String("args-json", "", "Tool arguments as an inline JSON object")
	cmd.Flags().String("audit-db", "", "Record the invocation in a SQLite audit database at this path")
	return cmd
}

func runInvoke(cmd *cobra.Command, args []string) error {
	toolName := args[0]

	inst, err := buildInstance(cmd)
	if err != nil {
		return err
	}

	raw, err := resolveInvokeArgs(cmd)
	if err != nil {
		return err
	}

	if auditPath, _ := cmd.Flags().GetString("audit-db"); auditPath != "" {
		store, err := audit.NewSQLiteStore(auditPath)
		if err != nil {
			return exitError(exitRuntime, "opening audit store: %v", err)
		}
		defer store.Close()
		petalskill.SetObserver(audit.NewRecorder(store))
		defer petalskill.SetObserver(nil)
	}

	result := inst.Invoke(cmd.Context(), toolName, raw)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return exitError(exitRuntime, "encoding result: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	if !result.Success {
		return exitError(exitRuntime, "%s", result.ErrorMessage)
	}
	return nil
}

// resolveInvokeArgs builds the raw argument map from --args-json and --arg
// flags, --arg winning on conflicts.
func resolveInvokeArgs(cmd *cobra.Command) (map[string]any, error) {
	raw := map[string]any{}

	if inline, _ := cmd.Flags().GetString("args-json"); inline != "" {
		if err := json.Unmarshal([]byte(inline), &raw); err != nil {
			return nil, exitError(exitInputParse, "parsing --args-json: %v", err)
		}
	}

	pairs, _ := cmd.Flags().GetStringArray("arg")
	for _, pair := range pairs {
		key, value, err := parseKeyValue(pair)
		if err != nil {
			return nil, exitError(exitInputParse, "invalid --arg %q: %s", pair, err)
		}
		raw[key] = parsePrimitiveValue(value)
	}
	return raw, nil
}
