package petalskill

import (
	"context"
	"slices"
)

// ParamType identifies the declared type of a parameter or config value.
// The set is intentionally small: values cross the host boundary as
// JSON-shaped data, so only JSON-representable scalars are typed and
// everything else is declared as any.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeAny     ParamType = "any"
)

var validParamTypes = map[ParamType]struct{}{
	TypeString:  {},
	TypeNumber:  {},
	TypeBoolean: {},
	TypeAny:     {},
}

// Parameter describes one tool argument.
type Parameter struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        ParamType `json:"type"`
	Required    bool      `json:"required,omitempty"`
	Default     any       `json:"default,omitempty"`
}

// Args is the bound argument set passed to a handler. Every declared
// parameter is present, either from the raw invocation arguments or from
// its default, already coerced to the declared type.
type Args map[string]any

// String returns the named argument as a string, or "" when absent or
// not a string.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Number returns the named argument as a float64, or 0 when absent or
// not numeric.
func (a Args) Number(name string) float64 {
	f, _ := a[name].(float64)
	return f
}

// Bool returns the named argument as a bool, or false when absent or
// not boolean.
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Config is the resolved configuration view passed to handlers. Values are
// resolved once at instance construction and never mutate afterwards.
type Config map[string]any

// String returns the named config value as a string, or "" when absent or
// not a string.
func (c Config) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// Number returns the named config value as a float64, widening integer
// defaults. Returns 0 when absent or not numeric.
func (c Config) Number(key string) float64 {
	switch v := c[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns the named config value as a bool, or false when absent or
// not boolean.
func (c Config) Bool(key string) bool {
	b, _ := c[key].(bool)
	return b
}

// Handler is the executable operation behind a tool. A handler may return:
//   - a Result, passed through to the host unchanged;
//   - a map[string]any, wrapped as a successful result with the map as Data;
//   - any other value, wrapped as a successful result with the value
//     stringified into Message;
//   - an error, converted into a failed result.
//
// Panics are not recovered: a panicking handler is a defect in the skill,
// not a tool-level failure, and propagates to the host.
type Handler func(ctx context.Context, args Args, config Config) (any, error)

// Tool describes one invocable operation: metadata plus the ordered
// parameter list and the handler. Parameter order is declaration order and
// is observable through listing and binding.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Handler     Handler     `json:"-"`
}

// ParameterNames returns parameter names in declaration order.
func (t Tool) ParameterNames() []string {
	names := make([]string, 0, len(t.Parameters))
	for _, p := range t.Parameters {
		names = append(names, p.Name)
	}
	return names
}

// ConfigOption describes one configuration key with its default value.
type ConfigOption struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// Metadata contains display metadata for a skill. Immutable once declared.
type Metadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Definition is the immutable declaration of a skill: metadata, config
// options, and tools, all in declaration order. Build one with a Builder.
type Definition struct {
	meta    Metadata
	configs []ConfigOption
	tools   []Tool
}

// Metadata returns the skill metadata.
func (d *Definition) Metadata() Metadata {
	meta := d.meta
	meta.Tags = slices.Clone(d.meta.Tags)
	return meta
}

// Tools returns the declared tools in declaration order.
func (d *Definition) Tools() []Tool {
	return slices.Clone(d.tools)
}

// Tool returns a declared tool by name.
func (d *Definition) Tool(name string) (Tool, bool) {
	for _, t := range d.tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// ConfigOptions returns the declared config options in declaration order.
func (d *Definition) ConfigOptions() []ConfigOption {
	return slices.Clone(d.configs)
}

// ToolNames returns tool names in declaration order.
func (d *Definition) ToolNames() []string {
	names := make([]string, 0, len(d.tools))
	for _, t := range d.tools {
		names = append(names, t.Name)
	}
	return names
}
