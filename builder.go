package petalskill

import (
	"fmt"
	"slices"
)

// Builder accumulates a skill declaration: metadata, config options, and
// tools with their parameters. Declaration never invokes handlers and has no
// side effects beyond the builder itself; Build validates the whole
// declaration and produces an immutable Definition.
//
// Declaration order is preserved and observable: Tools, ConfigOptions, and
// parameter binding all follow the order calls were made in.
type Builder struct {
	meta    Metadata
	configs []ConfigOption
	tools   []*ToolBuilder
	diags   []Diagnostic
}

// NewSkill starts a skill declaration with the given metadata.
func NewSkill(meta Metadata) *Builder {
	return &Builder{meta: meta}
}

// AddConfigOption declares a configuration key with a default value.
// Re-declaring a key is a definition error reported by Build, never a
// silent overwrite.
func (b *Builder) AddConfigOption(key, description string, defaultValue any) *Builder {
	for _, opt := range b.configs {
		if opt.Key == key {
			b.diags = append(b.diags, Diagnostic{
				Field:    "config." + key,
				Code:     CodeDuplicateConfig,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Config key %q is already declared", key),
			})
			return b
		}
	}
	b.configs = append(b.configs, ConfigOption{
		Key:         key,
		Description: description,
		Default:     defaultValue,
	})
	return b
}

// AddTool declares a tool and returns its ToolBuilder for parameter
// declaration. Re-declaring a tool name is a definition error reported by
// Build, never a silent overwrite.
func (b *Builder) AddTool(name, description string, handler Handler) *ToolBuilder {
	tb := &ToolBuilder{
		skill: b,
		tool: Tool{
			Name:        name,
			Description: description,
			Handler:     handler,
		},
	}
	for _, existing := range b.tools {
		if existing.tool.Name == name {
			b.diags = append(b.diags, Diagnostic{
				Field:    "tools." + name,
				Code:     CodeDuplicateTool,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Tool %q is already declared", name),
			})
			// Returned so chained AddParameter calls stay safe; the
			// duplicate never reaches the definition.
			tb.discarded = true
			return tb
		}
	}
	b.tools = append(b.tools, tb)
	return tb
}

// Build validates the declaration and returns the immutable Definition.
// Any accumulated duplicate or validation finding of error severity makes
// Build fail with a *DefinitionError; the skill must not be constructed
// from a defective declaration.
func (b *Builder) Build() (*Definition, error) {
	def := &Definition{
		meta:    b.meta,
		configs: slices.Clone(b.configs),
	}
	def.meta.Tags = slices.Clone(b.meta.Tags)
	for _, tb := range b.tools {
		tool := tb.tool
		tool.Parameters = slices.Clone(tb.tool.Parameters)
		def.tools = append(def.tools, tool)
	}

	diags := slices.Clone(b.diags)
	diags = append(diags, validateDefinition(def)...)
	if hasErrorDiagnostics(diags) {
		return nil, newDefinitionError(diags)
	}
	return def, nil
}

// ToolBuilder declares parameters for one tool.
type ToolBuilder struct {
	skill     *Builder
	tool      Tool
	discarded bool
}

// ParamOption configures a parameter declaration.
type ParamOption func(*Parameter)

// WithDefault makes the parameter optional with the given default value.
// A parameter without a default is required.
func WithDefault(value any) ParamOption {
	return func(p *Parameter) {
		p.Required = false
		p.Default = value
	}
}

// AddParameter declares a parameter on the tool. Parameters are required
// unless WithDefault is supplied. Re-declaring a parameter name within the
// same tool is a definition error reported by Build.
func (tb *ToolBuilder) AddParameter(name, description string, typ ParamType, opts ...ParamOption) *ToolBuilder {
	for _, existing := range tb.tool.Parameters {
		if existing.Name == name {
			tb.skill.diags = append(tb.skill.diags, Diagnostic{
				Field:    "tools." + tb.tool.Name + ".parameters." + name,
				Code:     CodeDuplicateParameter,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Parameter %q is already declared on tool %q", name, tb.tool.Name),
			})
			return tb
		}
	}

	param := Parameter{
		Name:        name,
		Description: description,
		Type:        typ,
		Required:    true,
	}
	for _, opt := range opts {
		opt(&param)
	}
	tb.tool.Parameters = append(tb.tool.Parameters, param)
	return tb
}

// Skill returns the parent builder for continued declaration.
func (tb *ToolBuilder) Skill() *Builder {
	return tb.skill
}
