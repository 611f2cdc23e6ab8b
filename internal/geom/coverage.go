package geom

import "math"

// CoverageResult summarises how spawn lines spread across the tilted sweep.
type CoverageResult struct {
	Bins     []int
	Occupied int
	MaxBin   int
	MinBin   int
	// LongestGap is the longest run of consecutive empty bins.
	LongestGap int
}

// Spread returns MaxBin/MinBin, or +Inf when some bin is empty.
func (c CoverageResult) Spread() float64 {
	if c.MinBin == 0 {
		return math.Inf(1)
	}
	return float64(c.MaxBin) / float64(c.MinBin)
}

// Coverage bins the perpendicular offset of every path (measured from the
// centre of r along the axis perpendicular to the tilt direction).
func Coverage(paths []Path, tiltDeg float64, r Rect, bins int) CoverageResult {
	if bins <= 0 {
		bins = 1
	}
	res := CoverageResult{Bins: make([]int, bins)}
	dir := Direction(tiltDeg)
	perp := Perpendicular(dir)
	maxOffset := MaxOffset(dir, r)
	if maxOffset <= 0 {
		return res
	}
	center := r.Center()
	for _, p := range paths {
		rel := p.Start.Sub(center)
		offset := rel.Dot(perp)
		idx := int((offset + maxOffset) / (2 * maxOffset) * float64(bins))
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		res.Bins[idx]++
	}

	res.MinBin = math.MaxInt
	gap := 0
	for _, n := range res.Bins {
		if n > 0 {
			res.Occupied++
			gap = 0
		} else {
			gap++
			if gap > res.LongestGap {
				res.LongestGap = gap
			}
		}
		if n > res.MaxBin {
			res.MaxBin = n
		}
		if n < res.MinBin {
			res.MinBin = n
		}
	}
	return res
}
