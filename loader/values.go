package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadValues reads a values file supplying config overrides for instance
// construction. The format is detected from the extension (.yaml/.yml or
// .json); for any other extension the content decides, JSON when the first
// byte is an opening brace, YAML otherwise. The file must decode to a
// mapping; keys the skill does not declare are ignored downstream.
func LoadValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path from caller
	if err != nil {
		return nil, fmt.Errorf("reading values file %s: %w", path, err)
	}
	return ParseValues(data, path)
}

// ParseValues decodes values file content. The path is used only for
// format detection.
func ParseValues(data []byte, path string) (map[string]any, error) {
	if useJSON(data, path) {
		var values map[string]any
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parsing values JSON: %w", err)
		}
		return values, nil
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing values YAML: %w", err)
	}
	return values, nil
}

func useJSON(data []byte, path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return false
	case ".json":
		return true
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
