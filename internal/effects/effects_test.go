package effects

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"weatherfx/internal/geom"
	"weatherfx/internal/particles"
	"weatherfx/pkg/core"
)

func TestDefaultTuningIsValid(t *testing.T) {
	tun := DefaultTuning()
	if err := tun.Validate(); err != nil {
		t.Fatalf("default tuning invalid: %v", err)
	}
	if tun.Rain.MaxCount == 0 || tun.Snow.MaxCount == 0 || tun.Leaf.MaxCount == 0 {
		t.Fatalf("expected populated defaults, got %+v", tun)
	}
	if tun.Wind.Exponent != 2.2 {
		t.Fatalf("expected wind exponent 2.2, got %f", tun.Wind.Exponent)
	}
}

func TestTuningRoundTrip(t *testing.T) {
	tun := DefaultTuning()
	tun.Snow.SwayMax = 21.5
	data, err := tun.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := ParseTuning(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(tun, back) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", tun, back)
	}
}

func TestLoadTuningKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("rain:\n  maxCount: 10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tun, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultTuning()
	if tun.Rain.MaxCount != 10 {
		t.Fatalf("expected override, got %d", tun.Rain.MaxCount)
	}
	if tun.Rain.Speed != def.Rain.Speed || tun.Snow != def.Snow {
		t.Fatal("missing keys should keep defaults")
	}
}

func TestLoadTuningErrors(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("leaf:\n  spinMin: 900\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadTuning(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestTuningSet(t *testing.T) {
	tun := DefaultTuning()
	if !tun.Set("rain.max_count", "12") || tun.Rain.MaxCount != 12 {
		t.Fatalf("expected max count override, got %d", tun.Rain.MaxCount)
	}
	if !tun.Set("snow.sway_max", "30") || tun.Snow.SwayMax != 30 {
		t.Fatalf("expected sway override, got %f", tun.Snow.SwayMax)
	}
	if !tun.Set("leaf.tilt_max", "80") || tun.Leaf.Tilt.Max != 80 {
		t.Fatalf("expected leaf tilt override, got %f", tun.Leaf.Tilt.Max)
	}
	before := tun
	if tun.Set("nope", "1") {
		t.Fatal("unknown key accepted")
	}
	if tun.Set("rain.speed_min", "fast") {
		t.Fatal("unparsable value accepted")
	}
	if tun.Set("rain.speed_min", "-1") {
		t.Fatal("invalid value accepted")
	}
	if tun != before {
		t.Fatal("rejected overrides must not change the tuning")
	}
	for _, k := range tun.Keys() {
		if k == "snow.sway_cycles" {
			return
		}
	}
	t.Fatal("Keys should list snow.sway_cycles")
}

func TestFromMap(t *testing.T) {
	tun := FromMap(map[string]string{"leaf.max_count": "2", "wind.tilt_max": "bogus"})
	if tun.Leaf.MaxCount != 2 {
		t.Fatalf("expected leaf max count 2, got %d", tun.Leaf.MaxCount)
	}
	if tun.Wind.TiltMax != DefaultTuning().Wind.TiltMax {
		t.Fatal("bogus value should fall back to default")
	}
}

func TestRegistry(t *testing.T) {
	if got := Profiles(); !reflect.DeepEqual(got, []string{"leaf", "rain", "snow"}) {
		t.Fatalf("unexpected profiles %v", got)
	}
	p, ok := New("snow", DefaultTuning(), core.NewRNG(1))
	if !ok || p.Name() != "snow" {
		t.Fatalf("expected snow profile, got %v %v", p, ok)
	}
	if _, ok := New("hail", DefaultTuning(), nil); ok {
		t.Fatal("unknown profile constructed")
	}
}

func TestLeafIntensityGating(t *testing.T) {
	cases := []struct {
		wind, rain, snow float64
		zero             bool
	}{
		{0, 0, 0, true},
		{0.1, 0, 0, true},
		{0.5, 0.1, 0, true},
		{0.5, 0.05, 0.05, true},
		{0.5, 0, 0.2, true},
		{0.11, 0, 0, false},
		{1, 0.09, 0, false},
	}
	for _, tc := range cases {
		got := LeafIntensity(tc.wind, tc.rain, tc.snow)
		if tc.zero && got != 0 {
			t.Fatalf("LeafIntensity(%v,%v,%v) = %f, want 0", tc.wind, tc.rain, tc.snow, got)
		}
		if !tc.zero && got <= 0 {
			t.Fatalf("LeafIntensity(%v,%v,%v) = %f, want > 0", tc.wind, tc.rain, tc.snow, got)
		}
	}
	if got := LeafIntensity(1, 0, 0); got != 1 {
		t.Fatalf("full wind with no precipitation should give 1, got %f", got)
	}
	prev := 0.0
	for w := 0.15; w <= 1; w += 0.05 {
		v := LeafIntensity(w, 0.02, 0)
		if v <= prev {
			t.Fatalf("leaf intensity should rise with wind: %f <= %f at %f", v, prev, w)
		}
		prev = v
	}
	prev = math.Inf(1)
	for p := 0.0; p < 0.1; p += 0.01 {
		v := LeafIntensity(0.6, p, 0)
		if v >= prev {
			t.Fatalf("leaf intensity should fall with precipitation: %f >= %f at %f", v, prev, p)
		}
		prev = v
	}
}

func calmRain() *Rain {
	tun := DefaultTuning().Rain
	tun.Tilt.Variation = 0
	return NewRain(tun, core.NewRNG(7))
}

func TestRainWithoutWindFallsVertically(t *testing.T) {
	r := calmRain()
	d, ok := r.Build(particles.BuildRequest{Slot: 3, TargetCount: 10, Intensity: 0.5})
	if !ok {
		t.Fatal("expected a descriptor")
	}
	start, end := d.Keyframes[0], d.Keyframes[len(d.Keyframes)-1]
	if math.Abs(start.X-end.X) > 1e-9 {
		t.Fatalf("expected vertical path, got %f -> %f", start.X, end.X)
	}
	bounds := r.Bounds()
	if start.Y > bounds.YMin || end.Y != bounds.YMax {
		t.Fatalf("expected path to span the padded view, got %f -> %f", start.Y, end.Y)
	}
	if start.Rotation != 0 && !math.Signbit(start.Rotation) {
		t.Fatalf("expected no tilt, got %f", start.Rotation)
	}
	min := seconds(r.t.Speed.MinDuration)
	if d.Duration < min {
		t.Fatalf("duration %v below floor %v", d.Duration, min)
	}
	if d.Style.Size < r.t.Size.Min || d.Style.Size > r.t.Size.Max {
		t.Fatalf("size %f outside range", d.Style.Size)
	}
	if d.Style.Opacity < r.t.Opacity.Min || d.Style.Opacity > r.t.Opacity.Max {
		t.Fatalf("opacity %f outside range", d.Style.Opacity)
	}
}

func TestRainStartDelayOnlyOnFirstLap(t *testing.T) {
	r := calmRain()
	max := seconds(r.t.StartDelayMax)
	for i := 0; i < 50; i++ {
		d, _ := r.Build(particles.BuildRequest{Slot: 0, TargetCount: 1, Intensity: 1})
		if d.Delay < 0 || d.Delay > max {
			t.Fatalf("first lap delay %v outside [0,%v]", d.Delay, max)
		}
		d, _ = r.Build(particles.BuildRequest{Slot: 0, TargetCount: 1, Intensity: 1, Lap: 1})
		if d.Delay != 0 {
			t.Fatalf("later laps must not be delayed, got %v", d.Delay)
		}
	}
}

func TestRainWindSkewsLeft(t *testing.T) {
	r := calmRain()
	r.SetWind(1)
	d, _ := r.Build(particles.BuildRequest{Slot: 5, TargetCount: 10, Intensity: 0.5})
	start, end := d.Keyframes[0], d.Keyframes[len(d.Keyframes)-1]
	if end.X >= start.X {
		t.Fatalf("expected leftward drift, got %f -> %f", start.X, end.X)
	}
	if math.Abs(start.Rotation+r.t.Tilt.Max) > 1e-9 {
		t.Fatalf("expected tilt %f, got %f", -r.t.Tilt.Max, start.Rotation)
	}
}

func TestDurationFloor(t *testing.T) {
	tun := DefaultTuning().Rain
	tun.Speed.Min = 100
	tun.Speed.Max = 200
	tun.Speed.MinDuration = 0.5
	r := NewRain(tun, core.NewRNG(3))
	d, _ := r.Build(particles.BuildRequest{Slot: 0, TargetCount: 1, Intensity: 1})
	if d.Duration != 500*time.Millisecond {
		t.Fatalf("expected duration floor 500ms, got %v", d.Duration)
	}
}

func TestDurationScalesWithViewHeight(t *testing.T) {
	tun := DefaultTuning().Snow
	tun.Tilt.Variation = 0
	tun.Speed.JitterMin, tun.Speed.JitterMax = 1, 1
	tun.Speed.MinDuration = 0
	tun.Size.Variation = 0
	tun.Path.Padding = 0
	s := NewSnow(tun, core.NewRNG(1))
	s.SetViewSize(400, 1000)
	short, _ := s.Build(particles.BuildRequest{Slot: 0, TargetCount: 1, Intensity: 0.5})
	s.SetViewSize(400, 500)
	alsoShort, _ := s.Build(particles.BuildRequest{Slot: 0, TargetCount: 1, Intensity: 0.5})
	if math.Abs(short.Duration.Seconds()-alsoShort.Duration.Seconds()) > 1e-6 {
		t.Fatalf("a full-height path should take the same time at any height: %v vs %v", short.Duration, alsoShort.Duration)
	}
}

func TestSnowSwayStaysNearPath(t *testing.T) {
	tun := DefaultTuning().Snow
	tun.Tilt.Variation = 0
	s := NewSnow(tun, core.NewRNG(11))
	d, ok := s.Build(particles.BuildRequest{Slot: 2, TargetCount: 4, Intensity: 0.6})
	if !ok {
		t.Fatal("expected a descriptor")
	}
	x0 := d.Keyframes[0].X
	for _, kf := range d.Keyframes {
		if math.Abs(kf.X-x0) > tun.SwayMax*2+1e-9 {
			t.Fatalf("sway %f exceeds bound", kf.X-x0)
		}
	}
	if d.Keyframes[0].Opacity != 0 || d.Keyframes[len(d.Keyframes)-1].Opacity != 0 {
		t.Fatal("flakes should fade in and out")
	}
	if d.Delay > time.Duration(tun.StartDelayRatio*float64(d.Duration)) {
		t.Fatalf("first lap delay %v exceeds ratio of %v", d.Delay, d.Duration)
	}
}

func TestLeafDelaysAndSpin(t *testing.T) {
	tun := DefaultTuning().Leaf
	l := NewLeaf(tun, core.NewRNG(5))
	l.SetWind(0.8)
	for lap := 0; lap < 3; lap++ {
		d, ok := l.Build(particles.BuildRequest{Slot: 2, TargetCount: 3, Intensity: 0.5, Lap: lap})
		if !ok {
			t.Fatal("expected a descriptor")
		}
		lo := 2 * tun.StartStagger
		hi := lo + tun.StartJitter
		if lap > 0 {
			lo += tun.RespawnMin
			hi += tun.RespawnMin + tun.RespawnJitter
		}
		if got := d.Delay.Seconds(); got < lo-1e-6 || got > hi+1e-6 {
			t.Fatalf("lap %d delay %f outside [%f,%f]", lap, got, lo, hi)
		}
		first, last := d.Keyframes[0], d.Keyframes[len(d.Keyframes)-1]
		spin := math.Abs(last.Rotation - first.Rotation)
		if spin < tun.SpinMin-1e-9 || spin > tun.SpinMax+1e-9 {
			t.Fatalf("spin %f outside [%f,%f]", spin, tun.SpinMin, tun.SpinMax)
		}
		if d.Style.Variant < 0 || d.Style.Variant >= tun.Variants {
			t.Fatalf("variant %d out of range", d.Style.Variant)
		}
	}
}

func TestEmptyTargetBuildsNothing(t *testing.T) {
	tun := DefaultTuning()
	for _, name := range Profiles() {
		p, _ := New(name, tun, core.NewRNG(1))
		if _, ok := p.Build(particles.BuildRequest{}); ok {
			t.Fatalf("%s built a lap without a population", name)
		}
	}
}

func TestPathsStayInsideBounds(t *testing.T) {
	tun := DefaultTuning()
	for _, name := range Profiles() {
		p, _ := New(name, tun, core.NewRNG(9))
		p.SetViewSize(640, 360)
		p.SetWind(0.7)
		b := p.Bounds()
		grown := geom.Rect{XMin: b.XMin - 200, XMax: b.XMax + 200, YMin: b.YMin - 200, YMax: b.YMax + 200}
		for slot := 0; slot < 8; slot++ {
			d, _ := p.Build(particles.BuildRequest{Slot: slot, TargetCount: 8, Intensity: 0.5})
			last := d.Keyframes[len(d.Keyframes)-1]
			if !grown.Contains(geom.Point{X: last.X, Y: last.Y}, 1e-6) {
				t.Fatalf("%s slot %d ends outside the view: %+v", name, slot, last)
			}
		}
	}
}

func TestTuningSetShapeKeys(t *testing.T) {
	tun := DefaultTuning()
	overrides := map[string]*float64{
		"leaf.tilt_exponent":   &tun.Leaf.Tilt.Exponent,
		"rain.size_base":       &tun.Rain.Speed.SizeBase,
		"snow.size_scale":      &tun.Snow.Speed.SizeScale,
		"leaf.spawn_offset":    &tun.Leaf.Path.SpawnOffset,
		"rain.spawn_variation": &tun.Rain.Path.SpawnVariation,
	}
	for key, field := range overrides {
		if !tun.Set(key, "0.5") || *field != 0.5 {
			t.Fatalf("%s: expected override to 0.5, got %f", key, *field)
		}
	}
	if tun.Set("snow.tilt_exponent", "0") {
		t.Fatal("zero tilt exponent accepted")
	}
}

func TestTiltFollowsWindExponent(t *testing.T) {
	leafTun := DefaultTuning().Leaf
	leafTun.Tilt.Variation = 0
	if leafTun.Tilt.Exponent != 0.7 {
		t.Fatalf("expected leaf tilt exponent 0.7, got %f", leafTun.Tilt.Exponent)
	}
	l := NewLeaf(leafTun, core.NewRNG(5))
	l.SetWind(0.5)
	want := -math.Pow(0.5, 0.7) * leafTun.Tilt.Max
	if got := l.tilt(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("leaf tilt: got %f want %f", got, want)
	}

	d, ok := l.Build(particles.BuildRequest{Slot: 2, TargetCount: 6, Intensity: 0.5})
	if !ok {
		t.Fatal("expected a leaf descriptor")
	}
	start, end := d.Keyframes[0], d.Keyframes[len(d.Keyframes)-1]
	angle := math.Atan2(end.X-start.X, end.Y-start.Y) * 180 / math.Pi
	if math.Abs(angle-want) > 1e-6 {
		t.Fatalf("leaf path angle: got %f want %f", angle, want)
	}

	r := calmRain()
	r.SetWind(0.5)
	if got, want := r.tilt(), -0.5*r.t.Tilt.Max; math.Abs(got-want) > 1e-9 {
		t.Fatalf("rain tilt is linear in wind: got %f want %f", got, want)
	}
}

func TestSpeedClampedToRange(t *testing.T) {
	tun := DefaultTuning().Rain
	r := NewRain(tun, core.NewRNG(11))

	r.SetWind(1)
	for i := 0; i < 200; i++ {
		v := r.speed(1, float64(i%11)/10)
		if v < tun.Speed.Min || v > tun.Speed.Max {
			t.Fatalf("speed %f outside [%f,%f]", v, tun.Speed.Min, tun.Speed.Max)
		}
	}
	if v := r.speed(1, 1); v != tun.Speed.Max {
		t.Fatalf("full wind and intensity should hit the cap %f, got %f", tun.Speed.Max, v)
	}

	r.SetWind(0)
	if v := r.speed(0, 0); v != tun.Speed.Min {
		t.Fatalf("calm small drops should sit on the floor %f, got %f", tun.Speed.Min, v)
	}
}
