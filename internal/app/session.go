package app

import (
	"fmt"
	"log"
	"strings"
	"time"

	"weatherfx/internal/effects"
	"weatherfx/internal/preset"
	"weatherfx/internal/render"
	"weatherfx/internal/scene"
	"weatherfx/internal/weather"
	pcore "weatherfx/pkg/core"
)

// Action is a front-end independent user command.
type Action int

const (
	ActionPause Action = iota
	ActionRainy
	ActionPouring
	ActionSnowy
	ActionWindUp
	ActionWindDown
	ActionPrecipUp
	ActionPrecipDown
	ActionWarmer
	ActionColder
	ActionReset
)

// inputStep is the percent change of one key press.
const inputStep = 5

const defaultPreset = "drizzle"

// Session wires a stage, a controller and the presets together. Both the
// window and the terminal front-end drive one.
type Session struct {
	Stage      *scene.Stage
	Controller *weather.Controller
	Look       *render.Look
	Presets    []preset.Preset

	// OnPause is called whenever the pause state flips.
	OnPause func(paused bool)

	store   *preset.Store
	paused  bool
	current string
}

// NewSession builds a session from cfg. Extra sinks receive every published
// variable and class next to the session's Look.
func NewSession(cfg *Config, extra ...weather.Sink) (*Session, error) {
	tuning, err := loadTuning(cfg)
	if err != nil {
		return nil, err
	}
	presets := preset.Builtin()
	if cfg.Presets != "" {
		more, err := preset.Load(cfg.Presets)
		if err != nil {
			return nil, err
		}
		presets = preset.Merge(presets, more)
	}

	s := &Session{
		Stage:   scene.NewStage(cfg.Width, cfg.Height),
		Look:    render.NewLook(),
		Presets: presets,
	}
	if cfg.AppName != "" {
		store, err := preset.OpenStore(cfg.AppName)
		if err != nil {
			log.Printf("[weatherfx] %v (last preset will not be remembered)", err)
		}
		s.store = store
	}
	for _, name := range []string{weather.LayerRain, weather.LayerSnow, weather.LayerLeaf} {
		s.Stage.AddLayer(name)
	}

	sinks := weather.MultiSink{s.Look}
	sinks = append(sinks, extra...)
	opts := weather.Options{
		Surface: s.Stage,
		Paused:  s.Paused,
		Sink:    sinks,
		Tuning:  &tuning,
		Rand:    pcore.NewRNG(cfg.Seed),
	}
	if cfg.Debug {
		opts.Debug = func(args ...any) { log.Println(append([]any{"[weatherfx]"}, args...)...) }
		opts.OnWindChange = func(w float64) { log.Printf("[weatherfx] wind %.2f", w) }
	}
	s.Controller = weather.New(opts)

	start := cfg.Preset
	if start == "" {
		if last, ok := s.store.Last(); ok {
			start = last
		}
	}
	if _, ok := preset.Find(presets, start); !ok {
		if cfg.Preset != "" {
			return nil, fmt.Errorf("unknown preset %q", cfg.Preset)
		}
		start = defaultPreset
	}
	if err := s.ApplyPreset(start); err != nil {
		return nil, err
	}
	return s, nil
}

func loadTuning(cfg *Config) (effects.Tuning, error) {
	t := effects.DefaultTuning()
	if cfg.Tuning != "" {
		loaded, err := effects.LoadTuning(cfg.Tuning)
		if err != nil {
			return t, err
		}
		t = loaded
	}
	for _, kv := range cfg.Sets.Pairs() {
		if !t.Set(kv[0], kv[1]) {
			return t, fmt.Errorf("invalid tuning override %s=%s (keys: %s)", kv[0], kv[1], strings.Join(t.Keys(), ", "))
		}
	}
	return t, nil
}

// Paused reports whether updates are suspended.
func (s *Session) Paused() bool { return s.paused }

// Current returns the name of the last applied preset, if any.
func (s *Session) Current() string { return s.current }

// ApplyPreset applies the named preset and remembers it.
func (s *Session) ApplyPreset(name string) error {
	p, ok := preset.Find(s.Presets, name)
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	p.Apply(s.Controller)
	s.current = p.Name
	if err := s.store.Remember(p.Name); err != nil {
		log.Printf("[weatherfx] %v", err)
	}
	return nil
}

// ApplyPresetIndex applies the i-th preset (0-based); out of range is a no-op.
func (s *Session) ApplyPresetIndex(i int) {
	if i < 0 || i >= len(s.Presets) {
		return
	}
	if err := s.ApplyPreset(s.Presets[i].Name); err != nil {
		log.Printf("[weatherfx] %v", err)
	}
}

// Do performs a user action. Manual input detaches the session from its
// preset.
func (s *Session) Do(a Action) {
	c := s.Controller
	switch a {
	case ActionPause:
		s.paused = !s.paused
		if !s.paused {
			c.Refresh(false)
		}
		if s.OnPause != nil {
			s.OnPause(s.paused)
		}
		return
	case ActionRainy:
		c.SetCondition(weather.Rainy, !c.Condition(weather.Rainy))
	case ActionPouring:
		c.SetCondition(weather.Pouring, !c.Condition(weather.Pouring))
	case ActionSnowy:
		c.SetCondition(weather.Snowy, !c.Condition(weather.Snowy))
	case ActionWindUp:
		c.SetWindSpeed(c.WindIntensity()*100 + inputStep)
	case ActionWindDown:
		c.SetWindSpeed(c.WindIntensity()*100 - inputStep)
	case ActionPrecipUp:
		c.SetPrecipitation(c.BasePrecipitation()*100 + inputStep)
	case ActionPrecipDown:
		c.SetPrecipitation(c.BasePrecipitation()*100 - inputStep)
	case ActionWarmer:
		c.SetTemperature(c.Temperature()*100 + inputStep)
	case ActionColder:
		c.SetTemperature(c.Temperature()*100 - inputStep)
	case ActionReset:
		c.Reset()
		c.Refresh(true)
	default:
		return
	}
	s.current = ""
}

// Tick advances the animation clock unless paused.
func (s *Session) Tick(dt time.Duration) {
	if s.paused {
		return
	}
	s.Stage.Advance(dt)
}

// Resize changes the stage size and lets the controller pick it up.
func (s *Session) Resize(w, h int) {
	if cw, ch := s.Stage.Size(); cw == w && ch == h {
		return
	}
	s.Stage.Resize(w, h)
	s.Controller.HandleResize()
}

// Status summarises the weather in one line.
func (s *Session) Status() string {
	c := s.Controller
	var b strings.Builder
	fmt.Fprintf(&b, "temp %3.0f%%  wind %3.0f%% (%+.1f°)  precip %3.0f%%  rain %3.0f%%  snow %3.0f%%  leaves %3.0f%%",
		c.Temperature()*100, c.WindIntensity()*100, c.WindTilt(), c.BasePrecipitation()*100,
		max(0, c.RainIntensity())*100, max(0, c.SnowIntensity())*100, c.LeafIntensity()*100)
	for _, flag := range []string{weather.Rainy, weather.Pouring, weather.Snowy} {
		if c.Condition(flag) {
			b.WriteString("  " + flag)
		}
	}
	if s.current != "" {
		b.WriteString("  [" + s.current + "]")
	}
	if s.paused {
		b.WriteString("  PAUSED")
	}
	return b.String()
}
