package weather

import (
	"maps"
	"math"
	"sort"

	"weatherfx/internal/effects"
	"weatherfx/internal/particles"
	"weatherfx/pkg/core"
)

// Layer names resolved on the surface, in update order.
const (
	LayerRain = "rain"
	LayerSnow = "snow"
	LayerLeaf = "leaf"
)

// Condition flags that drive precipitation.
const (
	Rainy   = "rainy"
	Pouring = "pouring"
	Snowy   = "snowy"
)

const defaultViewSize = 1000

// Surface hosts the particle layers and reports the rendered size.
type Surface interface {
	Container(name string) (particles.Container, particles.Factory, bool)
	Bounds() (w, h float64, ok bool)
}

type leafGate interface {
	Intensity(wind, rain, snow float64) float64
}

// Options configures a Controller. Every field is optional.
type Options struct {
	Surface      Surface
	Paused       func() bool
	OnWindChange func(float64)
	Debug        func(...any)
	Sink         Sink
	Tuning       *effects.Tuning
	Rand         core.Rand
}

type effect struct {
	name    string
	profile effects.Profile
	system  *particles.System
}

// Controller derives per-effect intensities from weather inputs and keeps the
// rain, snow and leaf systems in sync with them.
type Controller struct {
	surface    Surface
	paused     func() bool
	notifyWind func(float64)
	debug      func(...any)
	sink       Sink
	tuning     effects.Tuning
	rnd        core.Rand

	temperature   float64
	basePrecip    float64
	windIntensity float64
	windTilt      float64
	rainIntensity float64
	snowIntensity float64
	leafIntensity float64
	conditions    map[string]bool
	classes       map[string]bool

	viewW, viewH float64
	effects      []*effect
}

// New constructs a controller. Systems are created lazily once their layer
// exists on the surface.
func New(opts Options) *Controller {
	c := &Controller{
		surface:       opts.Surface,
		paused:        opts.Paused,
		notifyWind:    opts.OnWindChange,
		debug:         opts.Debug,
		sink:          opts.Sink,
		rnd:           opts.Rand,
		rainIntensity: -1,
		snowIntensity: -1,
		conditions:    map[string]bool{},
		classes:       map[string]bool{},
		viewW:         defaultViewSize,
		viewH:         defaultViewSize,
	}
	if c.paused == nil {
		c.paused = func() bool { return false }
	}
	if c.debug == nil {
		c.debug = func(...any) {}
	}
	if c.sink == nil {
		c.sink = noSink{}
	}
	if c.rnd == nil {
		c.rnd = core.NewRNG(1)
	}
	if opts.Tuning != nil {
		c.tuning = *opts.Tuning
	} else {
		c.tuning = effects.DefaultTuning()
	}
	for _, name := range []string{LayerRain, LayerSnow, LayerLeaf} {
		c.effects = append(c.effects, &effect{name: name})
	}
	return c
}

func (c *Controller) effect(name string) *effect {
	for _, e := range c.effects {
		if e.name == name {
			return e
		}
	}
	return nil
}

// initSystems creates any system whose layer has appeared and pushes the
// current wind to every profile.
func (c *Controller) initSystems() {
	for _, e := range c.effects {
		if e.system != nil || c.surface == nil {
			continue
		}
		container, create, ok := c.surface.Container(e.name)
		if !ok || container == nil {
			continue
		}
		profile, ok := effects.New(e.name, c.tuning, c.rnd)
		if !ok {
			continue
		}
		profile.SetViewSize(c.viewW, c.viewH)
		e.profile = profile
		e.system = particles.New(particles.Config{
			Container: container,
			MaxCount:  profile.MaxCount(),
			Create:    create,
			Build:     profile.Build,
			Rand:      c.rnd,
		})
		c.debug("weatherfx: created", e.name, "system, max", profile.MaxCount())
	}
	for _, e := range c.effects {
		if e.profile != nil {
			e.profile.SetWind(c.windIntensity)
		}
	}
}

// syncViewport picks up a changed rendered size. Paths are viewport-relative,
// so a change resets every system.
func (c *Controller) syncViewport() {
	c.initSystems()
	if c.surface == nil {
		return
	}
	w, h, ok := c.surface.Bounds()
	if !ok {
		return
	}
	w = math.Max(1, math.Round(w))
	h = math.Max(1, math.Round(h))
	if w == c.viewW && h == c.viewH {
		return
	}
	c.viewW, c.viewH = w, h
	c.debug("weatherfx: viewport", w, "x", h)
	for _, e := range c.effects {
		if e.system == nil {
			continue
		}
		e.profile.SetViewSize(w, h)
		e.system.Reset()
	}
}

func (c *Controller) update(name string, intensity float64, force bool) {
	if c.paused() {
		return
	}
	c.syncViewport()
	e := c.effect(name)
	if e == nil || e.system == nil {
		return
	}
	e.system.Update(intensity, force)
}

func (c *Controller) updateRain(force bool) {
	c.update(LayerRain, math.Max(0, c.rainIntensity), force)
}

func (c *Controller) updateSnow(force bool) {
	c.update(LayerSnow, math.Max(0, c.snowIntensity), force)
}

func (c *Controller) updateLeaves(force bool) {
	if c.paused() {
		return
	}
	c.syncViewport()
	e := c.effect(LayerLeaf)
	if e == nil || e.system == nil {
		return
	}
	rain := math.Max(0, c.rainIntensity)
	snow := math.Max(0, c.snowIntensity)
	if gate, ok := e.profile.(leafGate); ok {
		c.leafIntensity = gate.Intensity(c.windIntensity, rain, snow)
	} else {
		c.leafIntensity = effects.LeafIntensity(c.windIntensity, rain, snow)
	}
	c.sink.SetVariable(VarLeaf, c.leafIntensity)
	e.system.Update(c.leafIntensity, force)
}

func (c *Controller) applyPrecipitation() {
	rainy := c.conditions[Rainy] || c.conditions[Pouring]
	snowy := c.conditions[Snowy]
	c.rainIntensity = 0
	if rainy {
		c.rainIntensity = c.basePrecip
	}
	c.snowIntensity = 0
	if snowy {
		c.snowIntensity = c.basePrecip
	}
	c.sink.SetVariable(VarPrecipitation, c.rainIntensity)
	c.sink.SetVariable(VarSnowfall, c.snowIntensity)
	c.updateRain(false)
	c.updateSnow(false)
	c.updateLeaves(false)
}

// SetTemperature publishes a temperature percent and its styling classes.
func (c *Controller) SetTemperature(percent float64) {
	p := ClampPercent(percent, 0)
	c.temperature = p / 100
	c.sink.SetVariable(VarTemperature, c.temperature)
	c.sink.ToggleClass(ClassIcicles, p <= 5)
	c.sink.ToggleClass(ClassScarf, p <= 10)
}

// SetWindSpeed updates the wind and restarts every system so motion reacts
// immediately.
func (c *Controller) SetWindSpeed(percent float64) {
	intensity := toIntensity(percent)
	c.sink.SetVariable(VarWindSpeed, intensity)
	c.windIntensity = intensity
	for _, e := range c.effects {
		if e.profile != nil {
			e.profile.SetWind(intensity)
		}
	}
	c.windTilt = math.Pow(intensity, c.tuning.Wind.Exponent) * -c.tuning.Wind.TiltMax
	c.sink.SetVariable(VarWindTilt, c.windTilt)
	if c.notifyWind != nil {
		c.notifyWind(intensity)
	}
	c.updateRain(true)
	c.updateSnow(true)
	c.updateLeaves(true)
}

// SetPrecipitation sets the shared base intensity for rain and snow.
func (c *Controller) SetPrecipitation(percent float64) {
	c.basePrecip = toIntensity(percent)
	c.applyPrecipitation()
}

// SetWeatherConditions replaces the condition flags. Rainy and snowy may be
// set together.
func (c *Controller) SetWeatherConditions(conditions map[string]bool) {
	next := make(map[string]bool, len(conditions))
	for k, v := range conditions {
		if v {
			next[k] = true
		}
	}
	c.conditions = next
	for class := range c.classes {
		c.sink.ToggleClass(class, false)
	}
	clear(c.classes)
	for _, flag := range sortedKeys(next) {
		class := ConditionClass(flag)
		c.classes[class] = true
		c.sink.ToggleClass(class, true)
	}
	c.debug("weatherfx: conditions", sortedKeys(next))
	c.applyPrecipitation()
}

// SetCondition sets or clears a single flag.
func (c *Controller) SetCondition(flag string, on bool) {
	next := maps.Clone(c.conditions)
	if on {
		next[flag] = true
	} else {
		delete(next, flag)
	}
	c.SetWeatherConditions(next)
}

// Refresh re-applies the current intensities; force restarts unchanged systems.
func (c *Controller) Refresh(force bool) {
	c.updateRain(force)
	c.updateSnow(force)
	c.updateLeaves(force)
}

// Reset empties every system; the next update rebuilds them.
func (c *Controller) Reset() {
	for _, e := range c.effects {
		if e.system != nil {
			e.system.Reset()
		}
	}
}

// HandleResize re-reads the surface size and restarts every system.
func (c *Controller) HandleResize() { c.Refresh(true) }

// Temperature returns the temperature intensity in [0,1].
func (c *Controller) Temperature() float64 { return c.temperature }

// BasePrecipitation returns the shared precipitation intensity.
func (c *Controller) BasePrecipitation() float64 { return c.basePrecip }

// WindIntensity returns the wind intensity in [0,1].
func (c *Controller) WindIntensity() float64 { return c.windIntensity }

// WindTilt returns the published wind tilt in degrees.
func (c *Controller) WindTilt() float64 { return c.windTilt }

// RainIntensity returns the derived rain intensity, or -1 before the first
// derivation.
func (c *Controller) RainIntensity() float64 { return c.rainIntensity }

// SnowIntensity returns the derived snow intensity, or -1 before the first
// derivation.
func (c *Controller) SnowIntensity() float64 { return c.snowIntensity }

// LeafIntensity returns the last gated leaf intensity.
func (c *Controller) LeafIntensity() float64 { return c.leafIntensity }

// Condition reports whether a flag is set.
func (c *Controller) Condition(flag string) bool { return c.conditions[flag] }

// Conditions returns a copy of the set flags.
func (c *Controller) Conditions() map[string]bool { return maps.Clone(c.conditions) }

// ViewSize returns the viewport size paths are computed for.
func (c *Controller) ViewSize() (float64, float64) { return c.viewW, c.viewH }

// Tuning returns the effect tuning in use.
func (c *Controller) Tuning() effects.Tuning { return c.tuning }

// System returns the named particle system once created.
func (c *Controller) System(name string) (*particles.System, bool) {
	e := c.effect(name)
	if e == nil || e.system == nil {
		return nil, false
	}
	return e.system, true
}

// Profile returns the named effect profile once created.
func (c *Controller) Profile(name string) (effects.Profile, bool) {
	e := c.effect(name)
	if e == nil || e.profile == nil {
		return nil, false
	}
	return e.profile, true
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
