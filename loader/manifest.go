// Package loader bridges skill definitions and the filesystem: it renders a
// definition into a host-consumable manifest (JSON or YAML) and reads
// host-side values files that supply config overrides for instance
// construction.
package loader

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/petal-labs/petalskill"
)

// ParameterSpec is the manifest shape of one tool parameter.
type ParameterSpec struct {
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Type        petalskill.ParamType `json:"type" yaml:"type"`
	Required    bool                 `json:"required,omitempty" yaml:"required,omitempty"`
	Default     any                  `json:"default,omitempty" yaml:"default,omitempty"`
}

// ToolSpec is the manifest shape of one tool: metadata and parameters,
// never the handler.
type ToolSpec struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []ParameterSpec `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// ConfigOptionSpec is the manifest shape of one config option.
type ConfigOptionSpec struct {
	Key         string `json:"key" yaml:"key"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
}

// Manifest is the discovery document for a skill: everything a host needs
// to list tools and build a values file, with no executable parts.
type Manifest struct {
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string             `json:"version,omitempty" yaml:"version,omitempty"`
	Author      string             `json:"author,omitempty" yaml:"author,omitempty"`
	Tags        []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
	Config      []ConfigOptionSpec `json:"config,omitempty" yaml:"config,omitempty"`
	Tools       []ToolSpec         `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// Describe renders a definition into its manifest. Order follows
// declaration order throughout.
func Describe(def *petalskill.Definition) Manifest {
	meta := def.Metadata()
	m := Manifest{
		Name:        meta.Name,
		Description: meta.Description,
		Version:     meta.Version,
		Author:      meta.Author,
		Tags:        meta.Tags,
	}

	for _, opt := range def.ConfigOptions() {
		m.Config = append(m.Config, ConfigOptionSpec{
			Key:         opt.Key,
			Description: opt.Description,
			Default:     opt.Default,
		})
	}

	for _, tool := range def.Tools() {
		spec := ToolSpec{
			Name:        tool.Name,
			Description: tool.Description,
		}
		for _, param := range tool.Parameters {
			spec.Parameters = append(spec.Parameters, ParameterSpec{
				Name:        param.Name,
				Description: param.Description,
				Type:        param.Type,
				Required:    param.Required,
				Default:     param.Default,
			})
		}
		m.Tools = append(m.Tools, spec)
	}
	return m
}

// JSON renders the manifest as indented JSON.
func (m Manifest) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest JSON: %w", err)
	}
	return data, nil
}

// YAML renders the manifest as YAML.
func (m Manifest) YAML() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest YAML: %w", err)
	}
	return data, nil
}
