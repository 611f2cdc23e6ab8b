package geom

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"weatherfx/pkg/core"
)

// Point is a position or direction in viewport units. Y grows downward.
type Point struct {
	X, Y float64
}

// Vec returns p as a mathgl vector.
func (p Point) Vec() mgl64.Vec2 { return mgl64.Vec2{p.X, p.Y} }

// FromVec converts a mathgl vector back to a Point.
func FromVec(v mgl64.Vec2) Point { return Point{X: v.X(), Y: v.Y()} }

func (p Point) Add(q Point) Point { return FromVec(p.Vec().Add(q.Vec())) }

func (p Point) Sub(q Point) Point { return FromVec(p.Vec().Sub(q.Vec())) }

// Scale returns p*k.
func (p Point) Scale(k float64) Point { return FromVec(p.Vec().Mul(k)) }

// Dot returns the scalar product of p and q.
func (p Point) Dot(q Point) float64 { return p.Vec().Dot(q.Vec()) }

// Len returns the euclidean length of p.
func (p Point) Len() float64 { return p.Vec().Len() }

// Rect is an axis-aligned rectangle.
type Rect struct {
	XMin, XMax float64
	YMin, YMax float64
}

// ViewportRect returns the [0,w]x[0,h] viewport grown by padding on every side.
func ViewportRect(w, h, padding float64) Rect {
	return Rect{XMin: -padding, XMax: w + padding, YMin: -padding, YMax: h + padding}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.XMax - r.XMin }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.YMax - r.YMin }

// Center returns the geometric centre.
func (r Rect) Center() Point {
	return Point{X: (r.XMin + r.XMax) / 2, Y: (r.YMin + r.YMax) / 2}
}

// Contains reports whether p lies inside r, borders included, within eps.
func (r Rect) Contains(p Point, eps float64) bool {
	return p.X >= r.XMin-eps && p.X <= r.XMax+eps && p.Y >= r.YMin-eps && p.Y <= r.YMax+eps
}

// Path is a directed segment crossing a rectangle.
type Path struct {
	Dir   Point
	Start Point
	End   Point
}

// Length returns the distance between Start and End.
func (p Path) Length() float64 { return p.End.Sub(p.Start).Len() }

// At returns the point at fraction t of the way from Start to End.
func (p Path) At(t float64) Point {
	return p.Start.Add(p.End.Sub(p.Start).Scale(t))
}

// Direction returns the unit travel vector for a tilt in degrees. Zero tilt
// points straight down.
func Direction(tiltDeg float64) Point {
	theta := tiltDeg * math.Pi / 180
	return Point{X: math.Sin(theta), Y: math.Cos(theta)}
}

// Perpendicular returns dir rotated a quarter turn.
func Perpendicular(dir Point) Point {
	return Point{X: dir.Y, Y: -dir.X}
}

const crossingEps = 1e-9

type crossing struct {
	t float64
	p Point
}

// IntersectRay intersects the infinite line through p along dir with r and
// returns the two extreme crossings ordered along dir. ok is false when the
// line misses r, only touches it, or dir is degenerate.
func IntersectRay(p, dir Point, r Rect) (start, end Point, ok bool) {
	hits := make([]crossing, 0, 4)
	if math.Abs(dir.X) > crossingEps {
		for _, x := range [2]float64{r.XMin, r.XMax} {
			t := (x - p.X) / dir.X
			y := p.Y + t*dir.Y
			if y >= r.YMin-crossingEps && y <= r.YMax+crossingEps {
				hits = append(hits, crossing{t: t, p: Point{X: x, Y: y}})
			}
		}
	}
	if math.Abs(dir.Y) > crossingEps {
		for _, y := range [2]float64{r.YMin, r.YMax} {
			t := (y - p.Y) / dir.Y
			x := p.X + t*dir.X
			if x >= r.XMin-crossingEps && x <= r.XMax+crossingEps {
				hits = append(hits, crossing{t: t, p: Point{X: x, Y: y}})
			}
		}
	}
	if len(hits) < 2 {
		return Point{}, Point{}, false
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].t < hits[j].t })
	first, last := hits[0], hits[len(hits)-1]
	if last.t-first.t <= crossingEps {
		return Point{}, Point{}, false
	}
	return first.p, last.p, true
}

// VerticalPath is the fallback trajectory: straight down through the
// horizontal centre of r.
func VerticalPath(r Rect) Path {
	cx := r.Center().X
	return Path{
		Dir:   Point{X: 0, Y: 1},
		Start: Point{X: cx, Y: r.YMin},
		End:   Point{X: cx, Y: r.YMax},
	}
}

// MaxOffset returns the half extent of r projected on the axis perpendicular
// to dir.
func MaxOffset(dir Point, r Rect) float64 {
	perp := Perpendicular(dir)
	half := mgl64.Vec2{r.Width() / 2, r.Height() / 2}
	return half.Dot(mgl64.Vec2{math.Abs(perp.X), math.Abs(perp.Y)})
}

// SlotOffset maps slot plus intra-slot jitter in [0,1) from [0,targetCount)
// onto [-maxOffset, maxOffset].
func SlotOffset(slot, targetCount int, jitter, maxOffset float64) float64 {
	if targetCount <= 0 {
		targetCount = 1
	}
	if slot < 0 {
		slot = 0
	}
	if slot >= targetCount {
		slot = targetCount - 1
	}
	u := (float64(slot) + jitter) / float64(targetCount)
	return -maxOffset + u*2*maxOffset
}

// PathForSlot builds the travel path for a stratification slot. Slots spread
// the spawn line evenly over the whole tilted sweep of r, so a population stays
// evenly distributed even under heavy wind tilt.
func PathForSlot(slot, targetCount int, tiltDeg float64, r Rect, rnd core.Rand) Path {
	dir := Direction(tiltDeg)
	perp := Perpendicular(dir)
	offset := SlotOffset(slot, targetCount, rnd.Float64(), MaxOffset(dir, r))
	anchor := r.Center().Add(perp.Scale(offset))
	start, end, ok := IntersectRay(anchor, dir, r)
	if !ok {
		return VerticalPath(r)
	}
	return Path{Dir: dir, Start: start, End: end}
}
