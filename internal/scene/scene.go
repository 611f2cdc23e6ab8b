package scene

import (
	"time"

	"weatherfx/internal/anim"
	"weatherfx/internal/particles"
)

// Sprite is one particle living on a layer. Its position comes from the
// animation currently playing on the stage timeline.
type Sprite struct {
	tl    *anim.Timeline
	style particles.Style
	anim  *anim.Animation
}

// SetStyle stores the static look for the current lap.
func (s *Sprite) SetStyle(st particles.Style) { s.style = st }

// Style returns the static look for the current lap.
func (s *Sprite) Style() particles.Style { return s.style }

// Animate plays keyframes on the stage timeline.
func (s *Sprite) Animate(keyframes []anim.Keyframe, timing anim.Timing) particles.Animation {
	s.anim = s.tl.Play(keyframes, timing)
	return s.anim
}

// Frame samples the sprite at the current timeline time. ok is false when the
// sprite has nothing to draw.
func (s *Sprite) Frame() (anim.Frame, bool) {
	if s.anim == nil {
		return anim.Frame{}, false
	}
	f, ok := s.anim.Frame()
	if !ok {
		return f, false
	}
	f.Opacity *= s.style.Opacity
	return f, f.Opacity > 0
}

// Keyframes exposes the current lap's keyframes.
func (s *Sprite) Keyframes() []anim.Keyframe {
	if s.anim == nil || s.anim.Cancelled() {
		return nil
	}
	return s.anim.Keyframes()
}

// Layer is a named, ordered collection of sprites.
type Layer struct {
	name    string
	tl      *anim.Timeline
	sprites []*Sprite
	Hidden  bool
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// Children lists the layer's sprites as particle elements.
func (l *Layer) Children() []particles.Element {
	out := make([]particles.Element, len(l.sprites))
	for i, s := range l.sprites {
		out[i] = s
	}
	return out
}

// Append adds a sprite created by this stage. Foreign elements are ignored.
func (l *Layer) Append(e particles.Element) {
	if s, ok := e.(*Sprite); ok && s != nil {
		l.sprites = append(l.sprites, s)
	}
}

// RemoveAll detaches every sprite.
func (l *Layer) RemoveAll() {
	clear(l.sprites)
	l.sprites = l.sprites[:0]
}

// NewParticle creates a detached sprite bound to the stage timeline.
func (l *Layer) NewParticle() particles.Element { return &Sprite{tl: l.tl} }

// Sprites exposes the live sprites for renderers.
func (l *Layer) Sprites() []*Sprite { return l.sprites }

// Len returns the number of sprites.
func (l *Layer) Len() int { return len(l.sprites) }

// Stage is a retained 2D scene: a sized viewport with named layers sharing one
// timeline.
type Stage struct {
	w, h   int
	tl     *anim.Timeline
	layers []*Layer
}

// NewStage constructs a stage of the given pixel size.
func NewStage(w, h int) *Stage {
	return &Stage{w: w, h: h, tl: anim.NewTimeline()}
}

// Timeline returns the clock driving every sprite.
func (s *Stage) Timeline() *anim.Timeline { return s.tl }

// Advance moves the stage clock forward.
func (s *Stage) Advance(dt time.Duration) int { return s.tl.Advance(dt) }

// AddLayer returns the named layer, creating it on top if missing.
func (s *Stage) AddLayer(name string) *Layer {
	if l, ok := s.Layer(name); ok {
		return l
	}
	l := &Layer{name: name, tl: s.tl}
	s.layers = append(s.layers, l)
	return l
}

// Layer looks up a layer by name.
func (s *Stage) Layer(name string) (*Layer, bool) {
	for _, l := range s.layers {
		if l.name == name {
			return l, true
		}
	}
	return nil, false
}

// Layers returns layers bottom to top.
func (s *Stage) Layers() []*Layer { return s.layers }

// Container satisfies the weather surface: it resolves a layer as a particle
// container plus the factory that fills it.
func (s *Stage) Container(name string) (particles.Container, particles.Factory, bool) {
	l, ok := s.Layer(name)
	if !ok {
		return nil, nil, false
	}
	return l, l.NewParticle, true
}

// Resize changes the viewport size.
func (s *Stage) Resize(w, h int) {
	s.w, s.h = w, h
}

// Size returns the viewport size in pixels.
func (s *Stage) Size() (int, int) { return s.w, s.h }

// Bounds reports the rendered size; ok is false before the stage has a size.
func (s *Stage) Bounds() (w, h float64, ok bool) {
	if s.w <= 0 || s.h <= 0 {
		return 0, 0, false
	}
	return float64(s.w), float64(s.h), true
}
