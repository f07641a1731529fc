package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the "run" command, a line-oriented exerciser for manual
// testing: each input line names a tool followed by KEY=VALUE arguments, and
// each result is printed as one JSON line.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Invoke tools interactively from stdin",
		Long: `Read tool invocations from stdin, one per line, and print each result
as JSON. A line is a tool name followed by KEY=VALUE arguments:

  greet name=Alice formal=true

Blank lines are skipped; "exit" or "quit" ends the session.`,
		RunE: runRun,
	}
	addSkillFlag(cmd)
	addValuesFlags(cmd)
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	inst, err := buildInstance(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		fields := strings.Fields(line)
		toolName := fields[0]
		raw := map[string]any{}
		badPair := ""
		for _, pair := range fields[1:] {
			key, value, err := parseKeyValue(pair)
			if err != nil {
				badPair = pair
				break
			}
			raw[key] = parsePrimitiveValue(value)
		}
		if badPair != "" {
			fmt.Fprintf(out, "invalid argument %q: expected KEY=VALUE\n", badPair)
			continue
		}

		result := inst.Invoke(cmd.Context(), toolName, raw)
		data, err := json.Marshal(result)
		if err != nil {
			return exitError(exitRuntime, "encoding result: %v", err)
		}
		fmt.Fprintln(out, string(data))
	}
	if err := scanner.Err(); err != nil {
		return exitError(exitRuntime, "reading input: %v", err)
	}
	return nil
}
