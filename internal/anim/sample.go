package anim

// Sample linearly interpolates keyframes at progress t in [0,1]. Keyframes
// must be ordered by Offset.
func Sample(keyframes []Keyframe, t float64) Frame {
	switch len(keyframes) {
	case 0:
		return Frame{}
	case 1:
		return keyframes[0].frame()
	}
	if t <= keyframes[0].Offset {
		return keyframes[0].frame()
	}
	last := keyframes[len(keyframes)-1]
	if t >= last.Offset {
		return last.frame()
	}
	for i := 1; i < len(keyframes); i++ {
		b := keyframes[i]
		if t > b.Offset {
			continue
		}
		a := keyframes[i-1]
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.frame()
		}
		f := (t - a.Offset) / span
		return Frame{
			X:        lerp(a.X, b.X, f),
			Y:        lerp(a.Y, b.Y, f),
			Rotation: lerp(a.Rotation, b.Rotation, f),
			Opacity:  lerp(a.Opacity, b.Opacity, f),
		}
	}
	return last.frame()
}

func (k Keyframe) frame() Frame {
	return Frame{X: k.X, Y: k.Y, Rotation: k.Rotation, Opacity: k.Opacity}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
