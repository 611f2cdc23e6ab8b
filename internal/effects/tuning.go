package effects

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed default_tuning.yaml
var defaultTuningYAML []byte

// Variation maps a biased intensity into [Min,Max].
type Variation struct {
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Variation float64 `yaml:"variation"`
}

// Speed is measured in reference distances (view heights) per second.
type Speed struct {
	Min            float64 `yaml:"min"`
	Max            float64 `yaml:"max"`
	JitterMin      float64 `yaml:"jitterMin"`
	JitterMax      float64 `yaml:"jitterMax"`
	WindMultiplier float64 `yaml:"windMultiplier"`
	// SizeBase + normalizedSize*SizeScale scales the speed of one particle.
	SizeBase  float64 `yaml:"sizeBase"`
	SizeScale float64 `yaml:"sizeScale"`
	// MinDuration is the shortest lap in seconds.
	MinDuration float64 `yaml:"minDuration"`
}

// Tilt controls how far wind skews particle paths, in degrees.
type Tilt struct {
	Max       float64 `yaml:"max"`
	Variation float64 `yaml:"variation"`
	Exponent  float64 `yaml:"exponent"`
}

// PathTuning pads the viewport and pulls spawn points back along the path.
type PathTuning struct {
	Padding        float64 `yaml:"padding"`
	SpawnOffset    float64 `yaml:"spawnOffset"`
	SpawnVariation float64 `yaml:"spawnVariation"`
}

// Common holds the parameters every effect shares.
type Common struct {
	MaxCount int        `yaml:"maxCount"`
	Size     Variation  `yaml:"size"`
	Opacity  Variation  `yaml:"opacity"`
	Speed    Speed      `yaml:"speed"`
	Tilt     Tilt       `yaml:"tilt"`
	Path     PathTuning `yaml:"path"`
}

// RainTuning configures falling drops. Size is the drop length in pixels.
type RainTuning struct {
	Common `yaml:",inline"`
	// StartDelayMax spreads the first lap over [0,StartDelayMax) seconds.
	StartDelayMax float64 `yaml:"startDelayMax"`
}

// SnowTuning configures flakes. Size is the flake radius in pixels.
type SnowTuning struct {
	Common `yaml:",inline"`
	// StartDelayRatio spreads the first lap over a fraction of its duration.
	StartDelayRatio float64 `yaml:"startDelayRatio"`
	SwayMin         float64 `yaml:"swayMin"`
	SwayMax         float64 `yaml:"swayMax"`
	SwayCycles      float64 `yaml:"swayCycles"`
}

// LeafTuning configures tumbling leaves. Size is the leaf extent in pixels.
type LeafTuning struct {
	Common        `yaml:",inline"`
	SpinMin       float64 `yaml:"spinMin"`
	SpinMax       float64 `yaml:"spinMax"`
	Variants      int     `yaml:"variants"`
	StartStagger  float64 `yaml:"startStagger"`
	StartJitter   float64 `yaml:"startJitter"`
	RespawnMin    float64 `yaml:"respawnMin"`
	RespawnJitter float64 `yaml:"respawnJitter"`
	WindMin       float64 `yaml:"windMin"`
	PrecipMax     float64 `yaml:"precipMax"`
}

// WindTuning drives the global tilt published to the presentation layer.
type WindTuning struct {
	TiltMax  float64 `yaml:"tiltMax"`
	Exponent float64 `yaml:"exponent"`
}

// Tuning is the full set of effect constants.
type Tuning struct {
	Wind WindTuning `yaml:"wind"`
	Rain RainTuning `yaml:"rain"`
	Snow SnowTuning `yaml:"snow"`
	Leaf LeafTuning `yaml:"leaf"`
}

// DefaultTuning returns the embedded tuning.
func DefaultTuning() Tuning {
	t, err := ParseTuning(defaultTuningYAML)
	if err != nil {
		panic(fmt.Sprintf("effects: embedded tuning: %v", err))
	}
	return t
}

// ParseTuning decodes YAML on top of the zero value and validates it.
func ParseTuning(data []byte) (Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}

// LoadTuning reads a YAML file. Keys missing from the file keep their default
// values.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning %s: %w", path, err)
	}
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning %s: %w", path, err)
	}
	return t, nil
}

// Marshal encodes the tuning as YAML.
func (t Tuning) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tuning: %w", err)
	}
	return data, nil
}

// Validate checks ranges and counts.
func (t Tuning) Validate() error {
	if t.Wind.TiltMax < 0 || t.Wind.Exponent <= 0 {
		return fmt.Errorf("wind: tiltMax must be >= 0 and exponent > 0")
	}
	if err := t.Rain.Common.validate("rain"); err != nil {
		return err
	}
	if err := t.Snow.Common.validate("snow"); err != nil {
		return err
	}
	if err := t.Leaf.Common.validate("leaf"); err != nil {
		return err
	}
	if t.Rain.StartDelayMax < 0 {
		return fmt.Errorf("rain: startDelayMax must be >= 0, got %.2f", t.Rain.StartDelayMax)
	}
	if t.Snow.StartDelayRatio < 0 {
		return fmt.Errorf("snow: startDelayRatio must be >= 0, got %.2f", t.Snow.StartDelayRatio)
	}
	if t.Snow.SwayMin > t.Snow.SwayMax {
		return fmt.Errorf("snow: sway range invalid: min(%.2f) > max(%.2f)", t.Snow.SwayMin, t.Snow.SwayMax)
	}
	if t.Leaf.SpinMin > t.Leaf.SpinMax {
		return fmt.Errorf("leaf: spin range invalid: min(%.2f) > max(%.2f)", t.Leaf.SpinMin, t.Leaf.SpinMax)
	}
	if t.Leaf.Variants < 1 {
		return fmt.Errorf("leaf: variants must be >= 1, got %d", t.Leaf.Variants)
	}
	if t.Leaf.WindMin < 0 || t.Leaf.WindMin >= 1 {
		return fmt.Errorf("leaf: windMin must be in [0,1), got %.2f", t.Leaf.WindMin)
	}
	if t.Leaf.PrecipMax <= 0 {
		return fmt.Errorf("leaf: precipMax must be > 0, got %.2f", t.Leaf.PrecipMax)
	}
	return nil
}

func (c Common) validate(name string) error {
	if c.MaxCount < 0 {
		return fmt.Errorf("%s: maxCount must be >= 0, got %d", name, c.MaxCount)
	}
	if c.Size.Min > c.Size.Max {
		return fmt.Errorf("%s: size range invalid: min(%.2f) > max(%.2f)", name, c.Size.Min, c.Size.Max)
	}
	if c.Opacity.Min < 0 || c.Opacity.Max > 1 || c.Opacity.Min > c.Opacity.Max {
		return fmt.Errorf("%s: opacity range invalid: [%.2f,%.2f]", name, c.Opacity.Min, c.Opacity.Max)
	}
	if c.Speed.Min <= 0 || c.Speed.Min > c.Speed.Max {
		return fmt.Errorf("%s: speed range invalid: [%.2f,%.2f]", name, c.Speed.Min, c.Speed.Max)
	}
	if c.Speed.JitterMin <= 0 || c.Speed.JitterMin > c.Speed.JitterMax {
		return fmt.Errorf("%s: speed jitter invalid: [%.2f,%.2f]", name, c.Speed.JitterMin, c.Speed.JitterMax)
	}
	if c.Speed.MinDuration < 0 {
		return fmt.Errorf("%s: minDuration must be >= 0, got %.2f", name, c.Speed.MinDuration)
	}
	if c.Tilt.Exponent <= 0 {
		return fmt.Errorf("%s: tilt exponent must be > 0, got %.2f", name, c.Tilt.Exponent)
	}
	return nil
}

// fields maps flag-style keys to the float values they control.
func (t *Tuning) fields() map[string]*float64 {
	m := map[string]*float64{
		"wind.tilt_max": &t.Wind.TiltMax,
		"wind.exponent": &t.Wind.Exponent,

		"rain.start_delay_max": &t.Rain.StartDelayMax,

		"snow.start_delay_ratio": &t.Snow.StartDelayRatio,
		"snow.sway_min":          &t.Snow.SwayMin,
		"snow.sway_max":          &t.Snow.SwayMax,
		"snow.sway_cycles":       &t.Snow.SwayCycles,

		"leaf.spin_min":       &t.Leaf.SpinMin,
		"leaf.spin_max":       &t.Leaf.SpinMax,
		"leaf.start_stagger":  &t.Leaf.StartStagger,
		"leaf.start_jitter":   &t.Leaf.StartJitter,
		"leaf.respawn_min":    &t.Leaf.RespawnMin,
		"leaf.respawn_jitter": &t.Leaf.RespawnJitter,
		"leaf.wind_min":       &t.Leaf.WindMin,
		"leaf.precip_max":     &t.Leaf.PrecipMax,
	}
	for name, c := range map[string]*Common{"rain": &t.Rain.Common, "snow": &t.Snow.Common, "leaf": &t.Leaf.Common} {
		m[name+".size_min"] = &c.Size.Min
		m[name+".size_max"] = &c.Size.Max
		m[name+".size_variation"] = &c.Size.Variation
		m[name+".opacity_min"] = &c.Opacity.Min
		m[name+".opacity_max"] = &c.Opacity.Max
		m[name+".opacity_variation"] = &c.Opacity.Variation
		m[name+".speed_min"] = &c.Speed.Min
		m[name+".speed_max"] = &c.Speed.Max
		m[name+".jitter_min"] = &c.Speed.JitterMin
		m[name+".jitter_max"] = &c.Speed.JitterMax
		m[name+".wind_multiplier"] = &c.Speed.WindMultiplier
		m[name+".size_base"] = &c.Speed.SizeBase
		m[name+".size_scale"] = &c.Speed.SizeScale
		m[name+".min_duration"] = &c.Speed.MinDuration
		m[name+".tilt_max"] = &c.Tilt.Max
		m[name+".tilt_variation"] = &c.Tilt.Variation
		m[name+".tilt_exponent"] = &c.Tilt.Exponent
		m[name+".padding"] = &c.Path.Padding
		m[name+".spawn_offset"] = &c.Path.SpawnOffset
		m[name+".spawn_variation"] = &c.Path.SpawnVariation
	}
	return m
}

// Keys lists every key accepted by Set.
func (t *Tuning) Keys() []string {
	keys := []string{"rain.max_count", "snow.max_count", "leaf.max_count", "leaf.variants"}
	for k := range t.fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set applies one flag-style override. Unknown keys, unparsable values and
// values that would invalidate the tuning are ignored and reported as false.
func (t *Tuning) Set(key, value string) bool {
	next := *t
	switch key {
	case "rain.max_count", "snow.max_count", "leaf.max_count", "leaf.variants":
		n, err := strconv.Atoi(value)
		if err != nil {
			return false
		}
		switch key {
		case "rain.max_count":
			next.Rain.MaxCount = n
		case "snow.max_count":
			next.Snow.MaxCount = n
		case "leaf.max_count":
			next.Leaf.MaxCount = n
		case "leaf.variants":
			next.Leaf.Variants = n
		}
	default:
		ptr, ok := next.fields()[key]
		if !ok {
			return false
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		*ptr = f
	}
	if next.Validate() != nil {
		return false
	}
	*t = next
	return true
}

// FromMap applies every override in cfg to the default tuning.
func FromMap(cfg map[string]string) Tuning {
	t := DefaultTuning()
	for k, v := range cfg {
		t.Set(k, v)
	}
	return t
}
