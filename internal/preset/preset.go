package preset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Preset is one named weather setup. Percent values are in [0,100].
type Preset struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description,omitempty"`
	Temperature   float64  `yaml:"temperature"`
	Wind          float64  `yaml:"wind"`
	Precipitation float64  `yaml:"precipitation"`
	Conditions    []string `yaml:"conditions,omitempty"`
}

// Target receives the inputs of a preset. *weather.Controller implements it.
type Target interface {
	SetTemperature(percent float64)
	SetWindSpeed(percent float64)
	SetPrecipitation(percent float64)
	SetWeatherConditions(conditions map[string]bool)
}

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Apply pushes the preset to t. Conditions are applied last so the
// precipitation derivation sees the final base value.
func (p Preset) Apply(t Target) {
	if t == nil {
		return
	}
	t.SetTemperature(p.Temperature)
	t.SetWindSpeed(p.Wind)
	t.SetPrecipitation(p.Precipitation)
	flags := make(map[string]bool, len(p.Conditions))
	for _, c := range p.Conditions {
		flags[c] = true
	}
	t.SetWeatherConditions(flags)
}

// Validate checks names and percent ranges.
func (p Preset) Validate() error {
	if p.Name == "" {
		return errors.New("preset name is empty")
	}
	for _, v := range []struct {
		key string
		val float64
	}{
		{"temperature", p.Temperature},
		{"wind", p.Wind},
		{"precipitation", p.Precipitation},
	} {
		if v.val < 0 || v.val > 100 {
			return fmt.Errorf("preset %q: %s %.1f out of range [0,100]", p.Name, v.key, v.val)
		}
	}
	return nil
}

// Parse decodes a preset list and validates every entry.
func Parse(data []byte) ([]Preset, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	seen := map[string]bool{}
	for _, p := range f.Presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		seen[p.Name] = true
	}
	return f.Presets, nil
}

// Load reads presets from a YAML file.
func Load(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets %s: %w", path, err)
	}
	return Parse(data)
}

// Builtin returns the presets shipped with the binary.
func Builtin() []Preset {
	list, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("preset: invalid builtin presets: %v", err))
	}
	return list
}

// Find returns the preset named name.
func Find(list []Preset, name string) (Preset, bool) {
	for _, p := range list {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Merge returns base with every entry of extra appended, replacing entries
// of the same name in place.
func Merge(base, extra []Preset) []Preset {
	out := append([]Preset(nil), base...)
	for _, p := range extra {
		replaced := false
		for i := range out {
			if out[i].Name == p.Name {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}
