package preset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/quasilyte/gdata/v2"

	"weatherfx/internal/scene"
	"weatherfx/internal/weather"
	pcore "weatherfx/pkg/core"
)

func TestBuiltinPresets(t *testing.T) {
	list := Builtin()
	for _, name := range []string{"drizzle", "downpour", "sleet", "blizzard", "autumn-breeze", "calm"} {
		if _, ok := Find(list, name); !ok {
			t.Fatalf("builtin preset %q missing", name)
		}
	}
	if _, ok := Find(list, "monsoon"); ok {
		t.Fatal("unexpected preset found")
	}
}

func TestApplyDrivesController(t *testing.T) {
	st := scene.NewStage(800, 600)
	for _, name := range []string{weather.LayerRain, weather.LayerSnow, weather.LayerLeaf} {
		st.AddLayer(name)
	}
	sink := &weather.MemorySink{}
	c := weather.New(weather.Options{Surface: st, Sink: sink, Rand: pcore.NewRNG(3)})

	sleet, _ := Find(Builtin(), "sleet")
	sleet.Apply(c)
	if c.RainIntensity() != 0.6 || c.SnowIntensity() != 0.6 {
		t.Fatalf("sleet should rain and snow at 0.6, got %f/%f", c.RainIntensity(), c.SnowIntensity())
	}
	if !sink.HasClass(weather.ClassScarf) || !sink.HasClass(weather.ConditionClass(weather.Snowy)) {
		t.Fatalf("unexpected classes %v", sink.Classes())
	}

	breeze, _ := Find(Builtin(), "autumn-breeze")
	breeze.Apply(c)
	if c.RainIntensity() != 0 || c.SnowIntensity() != 0 {
		t.Fatal("autumn-breeze should stop precipitation")
	}
	if c.LeafIntensity() <= 0 {
		t.Fatal("autumn-breeze should blow leaves")
	}
	if sink.HasClass(weather.ConditionClass(weather.Snowy)) {
		t.Fatal("stale condition class left behind")
	}
	Preset{}.Apply(nil)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"range":     "presets:\n  - name: x\n    wind: 140\n",
		"name":      "presets:\n  - wind: 10\n",
		"duplicate": "presets:\n  - name: a\n  - name: a\n",
		"syntax":    "presets: [",
	}
	for label, src := range cases {
		if _, err := Parse([]byte(src)); err == nil {
			t.Fatalf("%s: expected error", label)
		}
	}
}

func TestLoadAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	src := "presets:\n  - name: calm\n    temperature: 80\n  - name: fog\n    precipitation: 5\n    conditions: [rainy]\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	extra, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	merged := Merge(Builtin(), extra)
	if len(merged) != len(Builtin())+1 {
		t.Fatalf("expected one new preset, got %d entries", len(merged))
	}
	calm, _ := Find(merged, "calm")
	if calm.Temperature != 80 {
		t.Fatalf("calm should be overridden, got %+v", calm)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestStoreRemembersLastPreset(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))

	m, err := gdata.Open(gdata.Config{AppName: "weatherfx_preset_test"})
	if err != nil {
		t.Fatalf("gdata.Open: %v", err)
	}
	s := NewStore(m)
	if _, ok := s.Last(); ok {
		t.Fatal("fresh store should have no last preset")
	}
	if err := s.Remember("blizzard"); err != nil {
		t.Fatalf("Remember: %v", err)
	}

	reopened := NewStore(m)
	last, ok := reopened.Last()
	if !ok || last != "blizzard" {
		t.Fatalf("expected blizzard, got %q (%v)", last, ok)
	}
}

func TestStoreDegradedMode(t *testing.T) {
	s := NewStore(nil)
	if err := s.Remember("calm"); err != nil {
		t.Fatalf("Remember in memory: %v", err)
	}
	if last, ok := s.Last(); !ok || last != "calm" {
		t.Fatalf("in-memory store lost state: %q", last)
	}
	var nilStore *Store
	if _, ok := nilStore.Last(); ok {
		t.Fatal("nil store should report nothing")
	}
}
