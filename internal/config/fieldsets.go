package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"amonic/skydesk/internal/listview"
)

//go:embed fieldsets.yaml
var defaultFieldSets []byte

// FieldSets maps a list-view resource name to its editable fields.
type FieldSets map[string][]listview.FieldSpec

// LoadFieldSets parses the embedded field sets, or the file at path when
// path is non-empty.
func LoadFieldSets(path string) (FieldSets, error) {
	data := defaultFieldSets
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read field sets %s: %w", path, err)
		}
		data = b
	}
	return ParseFieldSets(data)
}

func ParseFieldSets(data []byte) (FieldSets, error) {
	var sets FieldSets
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("parse field sets: %w", err)
	}
	for resource, fields := range sets {
		for i, f := range fields {
			if f.Name == "" {
				return nil, fmt.Errorf("field set %s: field %d has no name", resource, i)
			}
			if f.Type == "" {
				sets[resource][i].Type = listview.FieldText
			}
			if f.Label == "" {
				sets[resource][i].Label = f.Name
			}
		}
	}
	return sets, nil
}

// For returns the fields for resource; unknown resources have none.
func (s FieldSets) For(resource string) []listview.FieldSpec {
	return s[resource]
}
