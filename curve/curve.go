package curve

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
)

var (
	ErrTooFewPoints  = errors.New("curve: at least 2 control points required")
	ErrTooFewSamples = errors.New("curve: at least 2 samples required")
	ErrZeroLength    = errors.New("curve: zero length")
)

const (
	// arcDivisions is the resolution of the arc length lookup table.
	arcDivisions = 200
	minKnotGap   = 1e-4
)

// Curve is a centripetal Catmull-Rom spline through a fixed set
// of control points. It is immutable once built.
type Curve struct {
	points  []cp.Vector
	lengths []float64
}

// NewCatmullRom builds a spline passing through every control point in order.
func NewCatmullRom(points []cp.Vector) (*Curve, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}

	c := &Curve{points: append([]cp.Vector(nil), points...)}
	c.lengths = make([]float64, arcDivisions+1)
	prev := c.Point(0)
	sum := 0.0
	for i := 1; i <= arcDivisions; i++ {
		p := c.Point(float64(i) / arcDivisions)
		sum += p.Distance(prev)
		c.lengths[i] = sum
		prev = p
	}
	if sum <= 0 {
		return nil, ErrZeroLength
	}
	return c, nil
}

func (c *Curve) ControlPoints() []cp.Vector {
	return append([]cp.Vector(nil), c.points...)
}

func (c *Curve) Start() cp.Vector { return c.points[0] }
func (c *Curve) End() cp.Vector   { return c.points[len(c.points)-1] }

// Length is the approximate arc length of the whole curve.
func (c *Curve) Length() float64 {
	return c.lengths[len(c.lengths)-1]
}

// Point samples the spline at parameter t in [0,1], where t is spread evenly
// over control point spans rather than over arc length.
func (c *Curve) Point(t float64) cp.Vector {
	pt, _ := c.eval(t)
	return pt
}

// Tangent returns the unit tangent at parameter t.
func (c *Curve) Tangent(t float64) cp.Vector {
	_, d := c.eval(t)
	return d.Normalize()
}

// eval returns the point and derivative at t using the Barry-Goldman
// pyramid with centripetal knots, so a span never loops or doubles back
// however unevenly its control points are spaced.
func (c *Curve) eval(t float64) (pt, d cp.Vector) {
	p0, p1, p2, p3, w := c.span(t)
	t0 := 0.0
	t1 := t0 + knotGap(p0, p1)
	t2 := t1 + knotGap(p1, p2)
	t3 := t2 + knotGap(p2, p3)
	u := t1 + w*(t2-t1)

	a1, da1 := blend(p0, p1, cp.Vector{}, cp.Vector{}, t0, t1, u)
	a2, da2 := blend(p1, p2, cp.Vector{}, cp.Vector{}, t1, t2, u)
	a3, da3 := blend(p2, p3, cp.Vector{}, cp.Vector{}, t2, t3, u)
	b1, db1 := blend(a1, a2, da1, da2, t0, t2, u)
	b2, db2 := blend(a2, a3, da2, da3, t1, t3, u)
	return blend(b1, b2, db1, db2, t1, t2, u)
}

// knotGap is the centripetal knot spacing, the square root of the chord.
func knotGap(a, b cp.Vector) float64 {
	return math.Max(math.Sqrt(a.Distance(b)), minKnotGap)
}

// blend interpolates a to b over knots [ta, tb] at u, carrying derivatives
// da and db of the inputs along.
func blend(a, b, da, db cp.Vector, ta, tb, u float64) (cp.Vector, cp.Vector) {
	span := tb - ta
	wa, wb := (tb-u)/span, (u-ta)/span
	p := a.Mult(wa).Add(b.Mult(wb))
	d := b.Sub(a).Mult(1 / span).Add(da.Mult(wa)).Add(db.Mult(wb))
	return p, d
}

// PointAt samples at normalized arc length u in [0,1].
func (c *Curve) PointAt(u float64) cp.Vector {
	return c.Point(c.uToT(u))
}

// TangentAt returns the unit tangent at normalized arc length u in [0,1].
func (c *Curve) TangentAt(u float64) cp.Vector {
	return c.Tangent(c.uToT(u))
}

// SpacedPoints returns n samples evenly spaced by arc length. The first and
// last samples are the first and last control points exactly.
func (c *Curve) SpacedPoints(n int) ([]cp.Vector, error) {
	if n < 2 {
		return nil, ErrTooFewSamples
	}
	out := make([]cp.Vector, n)
	for i := 0; i < n; i++ {
		out[i] = c.PointAt(float64(i) / float64(n-1))
	}
	out[0] = c.Start()
	out[n-1] = c.End()
	return out, nil
}

func (c *Curve) span(t float64) (p0, p1, p2, p3 cp.Vector, w float64) {
	n := len(c.points)
	t = math.Max(0, math.Min(1, t))
	p := float64(n-1) * t
	i := int(math.Floor(p))
	w = p - float64(i)
	if i >= n-1 {
		i = n - 2
		w = 1
	}

	p1 = c.points[i]
	p2 = c.points[i+1]
	if i > 0 {
		p0 = c.points[i-1]
	} else {
		p0 = p1.Mult(2).Sub(p2)
	}
	if i+2 < n {
		p3 = c.points[i+2]
	} else {
		p3 = p2.Mult(2).Sub(p1)
	}
	return p0, p1, p2, p3, w
}

// uToT maps normalized arc length to the spline parameter with a binary
// search over the length table.
func (c *Curve) uToT(u float64) float64 {
	u = math.Max(0, math.Min(1, u))
	target := u * c.Length()

	lo, hi := 0, len(c.lengths)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		switch {
		case c.lengths[mid] < target:
			lo = mid + 1
		case c.lengths[mid] > target:
			hi = mid - 1
		default:
			return float64(mid) / arcDivisions
		}
	}
	i := hi
	if i < 0 {
		return 0
	}
	if i >= len(c.lengths)-1 {
		return 1
	}
	before := c.lengths[i]
	segment := c.lengths[i+1] - before
	frac := 0.0
	if segment > 0 {
		frac = (target - before) / segment
	}
	return (float64(i) + frac) / arcDivisions
}
