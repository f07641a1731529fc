// Package petalskill is an SDK for declaring and invoking skills: named,
// versioned plugin units exposing tools and configuration options to a host
// runtime. A skill is declared once through a Builder, constructed into an
// Instance with host-resolved configuration, and invoked by tool name with
// untyped arguments. Every invocation returns a uniform Result; expected
// failures never cross the boundary as panics.
package petalskill

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Instance is the runtime object a host actually calls: an immutable
// Definition combined with configuration resolved exactly once at
// construction. Instances are safe for concurrent invocation because
// neither the definition nor the resolved config mutates after New.
type Instance struct {
	def    *Definition
	config Config
}

// New constructs an Instance from a definition and host-supplied config
// overrides. Each declared config option resolves to the override when
// present, else its default; an option with neither is a MISSING_CONFIG
// definition error. Overrides must coerce to the type of the declared
// default (CONFIG_TYPE otherwise). Unknown override keys are ignored:
// hosts may share one values file across skills.
func New(def *Definition, overrides map[string]any) (*Instance, error) {
	diags := make([]Diagnostic, 0)
	resolved := make(Config, len(def.configs))

	for _, opt := range def.configs {
		value, ok := overrides[opt.Key]
		if !ok {
			if opt.Default == nil {
				diags = append(diags, Diagnostic{
					Field:    "config." + opt.Key,
					Code:     CodeMissingConfig,
					Severity: SeverityError,
					Message:  fmt.Sprintf("Config option %q has no value and no default", opt.Key),
				})
				continue
			}
			resolved[opt.Key] = opt.Default
			continue
		}

		coerced, err := coerceValue(value, configType(opt.Default))
		if err != nil {
			diags = append(diags, Diagnostic{
				Field:    "config." + opt.Key,
				Code:     CodeConfigType,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Invalid value for config option %q: %v", opt.Key, err),
			})
			continue
		}
		resolved[opt.Key] = coerced
	}

	if hasErrorDiagnostics(diags) {
		return nil, newDefinitionError(diags)
	}

	return &Instance{def: def, config: resolved}, nil
}

// configType derives the coercion target for an option from its default:
// string defaults keep overrides as strings, numeric defaults require
// numeric overrides, boolean likewise. A nil or non-scalar default accepts
// any value.
func configType(defaultValue any) ParamType {
	switch defaultValue.(type) {
	case string:
		return TypeString
	case float64, float32, int, int64:
		return TypeNumber
	case bool:
		return TypeBoolean
	default:
		return TypeAny
	}
}

// Definition returns the immutable declaration this instance was built from.
func (in *Instance) Definition() *Definition {
	return in.def
}

// Config returns the resolved value for a config key.
func (in *Instance) Config(key string) (any, bool) {
	v, ok := in.config[key]
	return v, ok
}

// ResolvedConfig returns the full resolved configuration view.
func (in *Instance) ResolvedConfig() Config {
	out := make(Config, len(in.config))
	for k, v := range in.config {
		out[k] = v
	}
	return out
}

// ConfigString returns a resolved config value as a string.
func (in *Instance) ConfigString(key string) string {
	return in.config.String(key)
}

// ConfigNumber returns a resolved config value as a float64.
func (in *Instance) ConfigNumber(key string) float64 {
	return in.config.Number(key)
}

// Invoke executes a tool by name with raw, untrusted arguments and returns
// the normalized Result. Unknown tools, missing required parameters, and
// argument coercion failures are tool-level failures reported in the
// Result; only a panicking handler escapes.
func (in *Instance) Invoke(ctx context.Context, toolName string, raw map[string]any) Result {
	start := time.Now()
	invocationID := uuid.NewString()

	result := in.invoke(ctx, toolName, raw)
	result.InvocationID = invocationID

	emitInvokeObservation(InvokeObservation{
		Skill:        in.def.meta.Name,
		Tool:         toolName,
		InvocationID: invocationID,
		Success:      result.Success,
		ErrorMessage: result.ErrorMessage,
		DurationMS:   time.Since(start).Milliseconds(),
	})
	return result
}

func (in *Instance) invoke(ctx context.Context, toolName string, raw map[string]any) Result {
	tool, ok := in.def.Tool(toolName)
	if !ok {
		return Errorf("Unknown tool: %s", toolName)
	}

	args := make(Args, len(tool.Parameters))
	for _, param := range tool.Parameters {
		value, supplied := raw[param.Name]
		if !supplied {
			if param.Required {
				return Errorf("Missing required parameter: %s", param.Name)
			}
			value = param.Default
		}
		coerced, err := coerceValue(value, param.Type)
		if err != nil {
			return Errorf("Invalid value for parameter %s: %v", param.Name, err)
		}
		args[param.Name] = coerced
	}

	returned, err := tool.Handler(ctx, args, in.config)
	if err != nil {
		return Error(err.Error())
	}
	return normalizeReturn(returned)
}

// normalizeReturn maps the handler's polymorphic return onto the Result
// envelope: a Result passes through, a map becomes Data on an auto-success
// with empty message, anything else becomes a stringified success Message.
func normalizeReturn(returned any) Result {
	switch v := returned.(type) {
	case Result:
		return v
	case *Result:
		if v != nil {
			return *v
		}
		return Ok("", nil)
	case map[string]any:
		return Ok("", v)
	default:
		return Ok(stringifyReturn(v), nil)
	}
}
