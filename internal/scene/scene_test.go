package scene

import (
	"testing"
	"time"

	"weatherfx/internal/anim"
	"weatherfx/internal/particles"
)

func TestLayerContainerSemantics(t *testing.T) {
	st := NewStage(100, 50)
	rain := st.AddLayer("rain")
	if again := st.AddLayer("rain"); again != rain {
		t.Fatal("AddLayer should return the existing layer")
	}
	c, create, ok := st.Container("rain")
	if !ok || c != particles.Container(rain) {
		t.Fatal("expected rain layer as container")
	}
	p := create()
	c.Append(p)
	c.Append(nil)
	if rain.Len() != 1 || rain.Children()[0] != p {
		t.Fatalf("expected one sprite, got %d", rain.Len())
	}
	c.RemoveAll()
	if rain.Len() != 0 {
		t.Fatal("RemoveAll should empty the layer")
	}
	if _, _, ok := st.Container("fog"); ok {
		t.Fatal("unknown layer resolved")
	}
}

func TestSpriteFrameFollowsTimeline(t *testing.T) {
	st := NewStage(100, 100)
	l := st.AddLayer("snow")
	s := l.NewParticle().(*Sprite)
	s.SetStyle(particles.Style{Size: 2, Opacity: 0.5})
	if _, ok := s.Frame(); ok {
		t.Fatal("sprite without animation should not draw")
	}
	a := s.Animate([]anim.Keyframe{
		{Offset: 0, X: 0, Y: 0, Opacity: 1},
		{Offset: 1, X: 0, Y: 100, Opacity: 1},
	}, anim.Timing{Duration: time.Second})

	st.Advance(250 * time.Millisecond)
	f, ok := s.Frame()
	if !ok || f.Y != 25 || f.Opacity != 0.5 {
		t.Fatalf("unexpected frame %+v ok=%v", f, ok)
	}
	a.Cancel()
	if _, ok := s.Frame(); ok {
		t.Fatal("cancelled sprite should not draw")
	}
	if s.Keyframes() != nil {
		t.Fatal("cancelled sprite should expose no keyframes")
	}
}

func TestBounds(t *testing.T) {
	st := NewStage(0, 10)
	if _, _, ok := st.Bounds(); ok {
		t.Fatal("zero-size stage should report no bounds")
	}
	st.Resize(320, 200)
	w, h, ok := st.Bounds()
	if !ok || w != 320 || h != 200 {
		t.Fatalf("unexpected bounds %f %f %v", w, h, ok)
	}
}
