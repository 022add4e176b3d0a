package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DeltaAngle returns the signed shortest rotation from current to target, in
// (-π, π]. Both the forward and backward modular differences are computed and
// the one with the smaller magnitude wins.
func DeltaAngle(current, target float64) float64 {
	const tau = 2 * math.Pi
	forward := math.Mod(target-current, tau)
	if forward < 0 {
		forward += tau
	}
	backward := forward - tau
	if forward <= -backward {
		return forward
	}
	return backward
}

// MeanAngle is the plain arithmetic mean of angles, unweighted.
func MeanAngle(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range angles {
		sum += a
	}
	return sum / float64(len(angles))
}

// Rect is an axis aligned rectangle in world units, y up.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func EmptyRect() Rect {
	return Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (r Rect) Extend(x, y float64) Rect {
	r.MinX = math.Min(r.MinX, x)
	r.MinY = math.Min(r.MinY, y)
	r.MaxX = math.Max(r.MaxX, x)
	r.MaxY = math.Max(r.MaxY, y)
	return r
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}
