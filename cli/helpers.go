// Package cli implements the petalskill command surface: listing tools,
// previewing config resolution, emitting manifests, and invoking tools of
// registered skills.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/petalskill"
	"github.com/petal-labs/petalskill/loader"
)

const defaultSkillName = "demo"

// addSkillFlag registers the shared --skill selector on a command.
func addSkillFlag(cmd *cobra.Command) {
	cmd.Flags().String("skill", defaultSkillName, "Skill to operate on")
}

// addValuesFlags registers the shared config override flags on a command.
func addValuesFlags(cmd *cobra.Command) {
	cmd.Flags().String("values", "", "Path to a values file (YAML or JSON) with config overrides")
	cmd.Flags().StringArray("set", nil, "Set a config override KEY=VALUE (repeatable)")
}

// resolveDefinition finds the selected skill in the global registry.
func resolveDefinition(cmd *cobra.Command) (*petalskill.Definition, error) {
	name, _ := cmd.Flags().GetString("skill")
	def, ok := petalskill.Global().Get(name)
	if !ok {
		return nil, exitError(exitValidation, "skill %q is not registered", name)
	}
	return def, nil
}

// resolveOverrides merges the --values file (when given) with --set pairs,
// --set winning on conflicts.
func resolveOverrides(cmd *cobra.Command) (map[string]any, error) {
	overrides := map[string]any{}

	if path, _ := cmd.Flags().GetString("values"); path != "" {
		loaded, err := loader.LoadValues(path)
		if err != nil {
			return nil, exitError(exitInputParse, "%s", err)
		}
		for k, v := range loaded {
			overrides[k] = v
		}
	}

	pairs, _ := cmd.Flags().GetStringArray("set")
	for _, pair := range pairs {
		key, value, err := parseKeyValue(pair)
		if err != nil {
			return nil, exitError(exitInputParse, "invalid --set %q: %s", pair, err)
		}
		overrides[key] = parsePrimitiveValue(value)
	}
	return overrides, nil
}

// buildInstance resolves the selected skill with overrides applied.
func buildInstance(cmd *cobra.Command) (*petalskill.Instance, error) {
	def, err := resolveDefinition(cmd)
	if err != nil {
		return nil, err
	}
	overrides, err := resolveOverrides(cmd)
	if err != nil {
		return nil, err
	}
	inst, err := petalskill.New(def, overrides)
	if err != nil {
		return nil, exitError(exitValidation, "%s", err)
	}
	return inst, nil
}

// parseKeyValue splits a KEY=VALUE pair.
func parseKeyValue(pair string) (string, string, error) {
	key, value, found := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", fmt.Errorf("expected KEY=VALUE")
	}
	return key, value, nil
}

// parsePrimitiveValue interprets a command-line value as a JSON-shaped
// scalar: bool, number, or string.
func parsePrimitiveValue(value string) any {
	trimmed := strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(trimmed); err == nil {
		return b
	}
	return value
}
