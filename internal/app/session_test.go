package app

import (
	"flag"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"weatherfx/internal/weather"
)

func testConfig() *Config {
	cfg := NewConfig()
	cfg.AppName = ""
	cfg.Width, cfg.Height = 800, 500
	return cfg
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	err := fs.Parse([]string{"-width", "320", "-set", "rain.size_min=10", "-set", "leaf.max_count=3", "-preset", "calm"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Width != 320 || cfg.Preset != "calm" || len(cfg.Sets) != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if p := cfg.Sets.Pairs(); p[1] != [2]string{"leaf.max_count", "3"} {
		t.Fatalf("unexpected pairs %v", p)
	}
	if err := fs.Parse([]string{"-set", "novalue"}); err == nil {
		t.Fatal("expected error for override without '='")
	}
}

func TestNewSessionStartsWithDefaultPreset(t *testing.T) {
	s, err := NewSession(testConfig())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Current() != defaultPreset {
		t.Fatalf("expected %s, got %q", defaultPreset, s.Current())
	}
	if !near(s.Controller.RainIntensity(), 0.25) {
		t.Fatalf("drizzle should rain at 0.25, got %f", s.Controller.RainIntensity())
	}
	rain, _ := s.Stage.Layer(weather.LayerRain)
	if rain.Len() == 0 {
		t.Fatal("rain layer should be populated")
	}
	if w, h := s.Controller.ViewSize(); w != 800 || h != 500 {
		t.Fatalf("controller should read the stage size, got %vx%v", w, h)
	}
}

func TestNewSessionErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Preset = "monsoon"
	if _, err := NewSession(cfg); err == nil {
		t.Fatal("unknown preset should fail")
	}
	cfg = testConfig()
	cfg.Sets = KVList{"rain.nope=1"}
	if _, err := NewSession(cfg); err == nil {
		t.Fatal("unknown tuning key should fail")
	}
	cfg = testConfig()
	cfg.Tuning = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewSession(cfg); err == nil {
		t.Fatal("missing tuning file should fail")
	}
}

func TestSessionTuningOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Sets = KVList{"rain.max_count=40"}
	cfg.Preset = "downpour"
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if got := s.Controller.Tuning().Rain.MaxCount; got != 40 {
		t.Fatalf("override not applied: %d", got)
	}
	rain, _ := s.Stage.Layer(weather.LayerRain)
	if rain.Len() != 40 {
		t.Fatalf("full intensity should fill the override max, got %d", rain.Len())
	}
}

func TestSessionActions(t *testing.T) {
	s, err := NewSession(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	c := s.Controller
	wind := c.WindIntensity()
	s.Do(ActionWindUp)
	if !near(c.WindIntensity(), wind+0.05) {
		t.Fatalf("wind should rise by 5%%, got %f", c.WindIntensity())
	}
	if s.Current() != "" {
		t.Fatal("manual input should detach from the preset")
	}
	s.Do(ActionSnowy)
	if !c.Condition(weather.Snowy) || c.SnowIntensity() <= 0 {
		t.Fatal("snowy should toggle on")
	}
	s.Do(ActionRainy)
	if c.Condition(weather.Rainy) || c.RainIntensity() != 0 {
		t.Fatal("rainy should toggle off")
	}
	for i := 0; i < 30; i++ {
		s.Do(ActionPrecipDown)
	}
	if c.BasePrecipitation() != 0 {
		t.Fatalf("precipitation should clamp at 0, got %f", c.BasePrecipitation())
	}
	temp := c.Temperature()
	s.Do(ActionColder)
	if !near(c.Temperature(), temp-0.05) {
		t.Fatalf("temperature should drop by 5%%, got %f", c.Temperature())
	}
}

func TestSessionPauseFreezesTimeline(t *testing.T) {
	s, err := NewSession(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	var states []bool
	s.OnPause = func(p bool) { states = append(states, p) }
	s.Tick(time.Second)
	now := s.Stage.Timeline().Now()

	s.Do(ActionPause)
	s.Tick(time.Second)
	if s.Stage.Timeline().Now() != now {
		t.Fatal("paused session should not advance")
	}
	s.Do(ActionPrecipUp)
	rain, _ := s.Controller.System(weather.LayerRain)
	if rain.Intensity() != 0.25 {
		t.Fatalf("paused controller should not update systems, got %f", rain.Intensity())
	}
	if !strings.Contains(s.Status(), "PAUSED") {
		t.Fatalf("status should show pause: %s", s.Status())
	}

	s.Do(ActionPause)
	if !near(rain.Intensity(), 0.30) {
		t.Fatalf("resume should apply pending input, got %f", rain.Intensity())
	}
	if len(states) != 2 || !states[0] || states[1] {
		t.Fatalf("unexpected pause callbacks %v", states)
	}
}

func TestSessionResizeAndPresets(t *testing.T) {
	s, err := NewSession(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Resize(640, 360)
	if w, h := s.Controller.ViewSize(); w != 640 || h != 360 {
		t.Fatalf("resize not picked up: %vx%v", w, h)
	}
	s.ApplyPresetIndex(99)
	if s.Current() != defaultPreset {
		t.Fatal("out of range preset should be ignored")
	}
	s.ApplyPresetIndex(3)
	if s.Current() != s.Presets[3].Name {
		t.Fatalf("expected %s, got %s", s.Presets[3].Name, s.Current())
	}
	if !strings.Contains(s.Status(), "["+s.Presets[3].Name+"]") {
		t.Fatalf("status should name the preset: %s", s.Status())
	}
	if err := s.ApplyPreset("nope"); err == nil {
		t.Fatal("unknown preset should fail")
	}
}

func TestSessionRemembersLastPreset(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))

	cfg := testConfig()
	cfg.AppName = "weatherfx_session_test"
	cfg.Preset = "blizzard"
	if _, err := NewSession(cfg); err != nil {
		t.Fatal(err)
	}
	cfg.Preset = ""
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.Current() != "blizzard" {
		t.Fatalf("expected remembered preset, got %q", s.Current())
	}
}
