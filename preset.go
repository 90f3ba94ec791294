package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseOverride decodes a preset document. format is a file extension
// without the dot: json, yaml, yml or toml.
func ParseOverride(data []byte, format string) (*ParametersOverride, error) {
	var override ParametersOverride
	var err error
	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(data, &override)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &override)
	case "toml":
		err = toml.Unmarshal(data, &override)
	default:
		return nil, fmt.Errorf("unsupported preset format '%s' (json, yaml, yml, toml)", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s preset: %w", format, err)
	}
	return &override, nil
}

// LoadPreset reads a preset file and resolves it against the defaults.
// The format follows the file extension.
func LoadPreset(path string) (LogoParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LogoParameters{}, fmt.Errorf("error reading preset file '%s': %w", path, err)
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	override, err := ParseOverride(data, format)
	if err != nil {
		return LogoParameters{}, fmt.Errorf("preset '%s': %w", path, err)
	}
	return Resolve(DefaultParameters(), override), nil
}
