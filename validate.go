package petalskill

import (
	"fmt"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// validateDefinition checks a fully-declared definition and returns all
// findings. Duplicates are detected during declaration and carried in by the
// builder; this pass covers naming, typing, and handler presence.
func validateDefinition(d *Definition) []Diagnostic {
	diags := make([]Diagnostic, 0)

	if strings.TrimSpace(d.meta.Name) == "" {
		diags = append(diags, Diagnostic{
			Field:    "metadata.name",
			Code:     CodeInvalidName,
			Severity: SeverityError,
			Message:  "Skill name is required",
		})
	}

	for _, opt := range d.configs {
		validateConfigOption(opt, &diags)
	}
	for _, t := range d.tools {
		validateTool(t, &diags)
	}

	return diags
}

func validateConfigOption(opt ConfigOption, diags *[]Diagnostic) {
	if !namePattern.MatchString(opt.Key) {
		*diags = append(*diags, Diagnostic{
			Field:    "config." + opt.Key,
			Code:     CodeInvalidName,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Config key %q must match %s", opt.Key, namePattern.String()),
		})
	}
}

func validateTool(t Tool, diags *[]Diagnostic) {
	field := "tools." + t.Name
	if !namePattern.MatchString(t.Name) {
		*diags = append(*diags, Diagnostic{
			Field:    field,
			Code:     CodeInvalidName,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Tool name %q must match %s", t.Name, namePattern.String()),
		})
	}
	if t.Handler == nil {
		*diags = append(*diags, Diagnostic{
			Field:    field + ".handler",
			Code:     CodeMissingHandler,
			Severity: SeverityError,
			Message:  "Tool has no handler",
		})
	}

	for _, p := range t.Parameters {
		paramField := field + ".parameters." + p.Name
		if !namePattern.MatchString(p.Name) {
			*diags = append(*diags, Diagnostic{
				Field:    paramField,
				Code:     CodeInvalidName,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Parameter name %q must match %s", p.Name, namePattern.String()),
			})
		}
		if _, ok := validParamTypes[p.Type]; !ok {
			*diags = append(*diags, Diagnostic{
				Field:    paramField + ".type",
				Code:     CodeInvalidType,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Unsupported type %q; allowed: string, number, boolean, any", p.Type),
			})
			continue
		}
		if !p.Required {
			// Optional parameters always carry a default; verify the
			// declared default coerces to the declared type so binding
			// cannot fail on a defaulted parameter.
			if _, err := coerceValue(p.Default, p.Type); err != nil {
				*diags = append(*diags, Diagnostic{
					Field:    paramField + ".default",
					Code:     CodeInvalidType,
					Severity: SeverityError,
					Message:  fmt.Sprintf("Default for %q is not a valid %s: %v", p.Name, p.Type, err),
				})
			}
		}
	}
}
