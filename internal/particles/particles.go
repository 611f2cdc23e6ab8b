package particles

import (
	"math"
	"time"

	"weatherfx/internal/anim"
	"weatherfx/pkg/core"
)

// Animation is the handle returned when an element starts animating.
type Animation interface {
	OnFinish(fn func())
	Cancel()
}

// Style carries the static per-lap look of a particle.
type Style struct {
	Size    float64
	Opacity float64
	Variant int
}

// Element is one renderable particle owned by a container.
type Element interface {
	SetStyle(Style)
	Animate(keyframes []anim.Keyframe, timing anim.Timing) Animation
}

// Container holds the elements of one effect layer.
type Container interface {
	Children() []Element
	Append(Element)
	RemoveAll()
}

// Factory creates one detached element per call.
type Factory func() Element

// BuildRequest is handed to a Builder for every lap of every particle.
type BuildRequest struct {
	Particle    Element
	Slot        int
	Intensity   float64
	TargetCount int
	// Lap counts completed laps since the particle was last started by
	// Update; 0 on the first lap.
	Lap int
}

// Descriptor describes one lap of a particle animation.
type Descriptor struct {
	Keyframes []anim.Keyframe
	Duration  time.Duration
	Delay     time.Duration
	Style     Style
	// Slot replaces the particle's slot for the next lap when HasSlot is set.
	Slot    int
	HasSlot bool
}

// Builder computes the next lap for a particle. Returning false leaves the
// particle unanimated.
type Builder func(BuildRequest) (Descriptor, bool)

// Config wires a System to its host and effect profile.
type Config struct {
	Container Container
	MaxCount  int
	Create    Factory
	Build     Builder
	Rand      core.Rand
}

// task is the repeating animation loop of one particle.
type task struct {
	anim      Animation
	slot      int
	lap       int
	cancelled bool
}

// System keeps a container populated with animated particles in proportion
// to an intensity.
type System struct {
	container Container
	maxCount  int
	create    Factory
	build     Builder
	rnd       core.Rand

	tasks map[Element]*task
	slots map[Element]int

	count       int
	intensity   float64
	normalized  float64
	targetCount int
}

// New constructs a System. A nil container makes every operation a no-op.
func New(cfg Config) *System {
	if cfg.MaxCount < 0 {
		cfg.MaxCount = 0
	}
	if cfg.Rand == nil {
		cfg.Rand = core.NewRNG(1)
	}
	return &System{
		container: cfg.Container,
		maxCount:  cfg.MaxCount,
		create:    cfg.Create,
		build:     cfg.Build,
		rnd:       cfg.Rand,
		tasks:     make(map[Element]*task),
		slots:     make(map[Element]int),
		count:     -1,
		intensity: -1,
	}
}

// Normalize coerces an intensity into [0,1]; non-finite values become 0.
func Normalize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// TargetCount returns ceil(intensity*maxCount) bounded to [0,maxCount].
func TargetCount(intensity float64, maxCount int) int {
	if maxCount <= 0 {
		return 0
	}
	n := int(math.Ceil(Normalize(intensity) * float64(maxCount)))
	if n < 0 {
		return 0
	}
	if n > maxCount {
		return maxCount
	}
	return n
}

// MaxCount returns the population ceiling.
func (s *System) MaxCount() int { return s.maxCount }

// Count returns the last applied population, or -1 before the first rebuild.
func (s *System) Count() int { return s.count }

// Intensity returns the last applied intensity, or -1 before the first rebuild.
func (s *System) Intensity() float64 { return s.intensity }

// TargetCount returns the population derived from the latest update.
func (s *System) TargetCount() int { return s.targetCount }

// Active returns the number of particles with a live animation loop.
func (s *System) Active() int { return len(s.tasks) }

// Update applies a new intensity. An unchanged intensity is a no-op unless
// force is set, in which case every particle restarts in place. Any change
// rebuilds the whole population with freshly shuffled slots.
func (s *System) Update(intensity float64, force bool) {
	if s.container == nil {
		return
	}
	normalized := Normalize(intensity)
	target := TargetCount(normalized, s.maxCount)
	s.normalized = normalized
	s.targetCount = target

	if target == s.count && normalized == s.intensity {
		if force {
			for _, p := range s.container.Children() {
				s.startAnimation(p, s.slotOf(p), 0)
			}
		}
		return
	}

	s.count = target
	s.intensity = normalized
	s.detachAll()

	if target == 0 || s.create == nil {
		return
	}
	slots := core.ShuffledSlots(s.rnd, target)
	for _, slot := range slots {
		p := s.create()
		if p == nil {
			continue
		}
		s.container.Append(p)
		s.slots[p] = slot
		s.startAnimation(p, slot, 0)
	}
}

// StartAnimation (re)starts the particle's animation loop at slot.
func (s *System) StartAnimation(p Element, slot int) {
	if s.container == nil || p == nil {
		return
	}
	s.startAnimation(p, slot, 0)
}

func (s *System) startAnimation(p Element, slot, lap int) {
	s.StopAnimation(p)
	s.slots[p] = slot
	if s.build == nil {
		return
	}
	desc, ok := s.build(BuildRequest{
		Particle:    p,
		Slot:        slot,
		Intensity:   s.normalized,
		TargetCount: s.targetCount,
		Lap:         lap,
	})
	if !ok {
		return
	}
	p.SetStyle(desc.Style)
	next := slot
	if desc.HasSlot {
		next = desc.Slot
	}
	t := &task{slot: slot, lap: lap}
	t.anim = p.Animate(desc.Keyframes, anim.Timing{Duration: desc.Duration, Delay: desc.Delay})
	if t.anim == nil {
		return
	}
	s.tasks[p] = t
	t.anim.OnFinish(func() {
		if t.cancelled {
			return
		}
		s.startAnimation(p, next, t.lap+1)
	})
}

// StopAnimation cancels the particle's loop. It is idempotent, and a late
// completion of the cancelled animation never reschedules.
func (s *System) StopAnimation(p Element) {
	t, ok := s.tasks[p]
	if !ok {
		return
	}
	t.cancelled = true
	if t.anim != nil {
		t.anim.OnFinish(nil)
		t.anim.Cancel()
	}
	delete(s.tasks, p)
}

// Reset removes every particle and forces the next Update to rebuild.
func (s *System) Reset() {
	if s.container == nil {
		return
	}
	s.detachAll()
	s.count = -1
	s.intensity = -1
	s.normalized = 0
	s.targetCount = 0
}

func (s *System) detachAll() {
	for _, p := range s.container.Children() {
		s.StopAnimation(p)
	}
	for p := range s.tasks {
		s.StopAnimation(p)
	}
	s.container.RemoveAll()
	clear(s.slots)
}

func (s *System) slotOf(p Element) int {
	if slot, ok := s.slots[p]; ok {
		return slot
	}
	return 0
}
