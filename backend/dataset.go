package backend

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

// DatasetDef describes one plotted series. The chart only ever fills in
// values; it never changes which datasets exist.
type DatasetDef struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Fill  bool   `json:"fill,omitempty"`
}

// NRGBA returns the definition's colour, or fallback if none was set.
func (d DatasetDef) NRGBA(fallback color.NRGBA) color.NRGBA {
	if d.Color == "" {
		return fallback
	}
	c, err := ParseColor(d.Color)
	if err != nil {
		return fallback
	}
	return c
}

// DefinitionSet is the result of loading dataset definitions. Err is set when
// the most recent reload failed, in which case Defs still holds the last good
// definitions.
type DefinitionSet struct {
	Path string
	Defs []DatasetDef
	Err  error
}

func DefaultDefinitions() []DatasetDef {
	return []DatasetDef{
		{Name: "Dataset 1", Color: "#2b7fa8", Fill: true},
		{Name: "Dataset 2", Color: "#a4633a", Fill: true},
	}
}

// ParseColor accepts "#rrggbb" and "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ValidateDefinitions checks that defs can be plotted side by side.
func ValidateDefinitions(defs []DatasetDef) error {
	if len(defs) == 0 {
		return ErrNoDatasets
	}
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return fmt.Errorf("dataset %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = true
		if d.Color != "" {
			if _, err := ParseColor(d.Color); err != nil {
				return fmt.Errorf("dataset %q: %w", name, err)
			}
		}
	}
	return nil
}

// ParseDefinitions decodes a YAML list of dataset definitions.
func ParseDefinitions(data []byte) ([]DatasetDef, error) {
	var defs []DatasetDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse dataset definitions: %w", err)
	}
	if err := ValidateDefinitions(defs); err != nil {
		return nil, fmt.Errorf("invalid dataset definitions: %w", err)
	}
	return defs, nil
}

// LoadDefinitions reads dataset definitions from a YAML file.
func LoadDefinitions(path string) ([]DatasetDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset definitions %s: %w", path, err)
	}
	defs, err := ParseDefinitions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}
