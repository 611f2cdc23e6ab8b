package app

import (
	"flag"
	"fmt"
	"strings"
)

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string { return strings.Join(*l, ",") }

// Set appends one override.
func (l *KVList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*l = append(*l, value)
	return nil
}

// Pairs splits every entry at its first '='.
func (l KVList) Pairs() [][2]string {
	out := make([][2]string, 0, len(l))
	for _, kv := range l {
		k, v, _ := strings.Cut(kv, "=")
		out = append(out, [2]string{strings.TrimSpace(k), strings.TrimSpace(v)})
	}
	return out
}

// Config represents the command-line parameters shared by the front-ends.
type Config struct {
	Width    int
	Height   int
	TPS      int
	Seed     int64
	Tuning   string
	Presets  string
	Preset   string
	Sets     KVList
	Debug    bool
	Audio    bool
	Volume   float64
	HUDWidth int
	AppName  string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:    960,
		Height:   600,
		TPS:      60,
		Seed:     42,
		Volume:   0.6,
		HUDWidth: 240,
		AppName:  "weatherfx",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "initial view width")
	fs.IntVar(&c.Height, "height", c.Height, "initial view height")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for particle randomness")
	fs.StringVar(&c.Tuning, "tuning", c.Tuning, "effect tuning YAML file (defaults are embedded)")
	fs.StringVar(&c.Presets, "presets", c.Presets, "extra presets YAML file")
	fs.StringVar(&c.Preset, "preset", c.Preset, "preset to start with (default: last used)")
	fs.Var(&c.Sets, "set", "tuning override in key=value form (repeatable)")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "log controller events")
	fs.BoolVar(&c.Audio, "audio", c.Audio, "play rain and wind ambience")
	fs.Float64Var(&c.Volume, "volume", c.Volume, "ambience volume in [0,1]")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 disables)")
	fs.StringVar(&c.AppName, "store", c.AppName, "storage name for the last preset (empty disables)")
}
