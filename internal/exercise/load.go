package exercise

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads extra exercise definitions from a YAML file and merges them
// with the builtin catalog. File definitions may override builtins of the
// same name. The file holds a single `exercises:` list.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading exercises file: %w", err)
	}

	var doc struct {
		Exercises []Definition `yaml:"exercises"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing exercises file: %w", err)
	}

	merged := make([]Definition, 0, len(builtins)+len(doc.Exercises))
	override := make(map[string]bool, len(doc.Exercises))
	for _, d := range doc.Exercises {
		override[d.Name] = true
	}
	for _, d := range builtins {
		if !override[d.Name] {
			merged = append(merged, d)
		}
	}
	merged = append(merged, doc.Exercises...)

	r, err := NewRegistry(merged)
	if err != nil {
		return nil, fmt.Errorf("exercises file %s: %w", path, err)
	}
	return r, nil
}
