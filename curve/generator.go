package curve

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
)

var ErrInvalidParams = errors.New("curve: invalid generator params")

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Params describes one random walk. Angles are radians measured from +x,
// positive counter-clockwise.
type Params struct {
	Points    int
	Length    Range
	Angle     Range
	Alternate bool
}

func (p Params) Validate() error {
	if p.Points < 2 {
		return fmt.Errorf("%w: %d points", ErrTooFewPoints, p.Points)
	}
	if p.Length.Min <= 0 || p.Length.Max < p.Length.Min {
		return fmt.Errorf("%w: length range [%v, %v]", ErrInvalidParams, p.Length.Min, p.Length.Max)
	}
	if p.Angle.Max < p.Angle.Min {
		return fmt.Errorf("%w: angle range [%v, %v]", ErrInvalidParams, p.Angle.Min, p.Angle.Max)
	}
	// the walk must never turn back on itself
	if math.Abs(p.Angle.Min) >= math.Pi/2 || math.Abs(p.Angle.Max) >= math.Pi/2 {
		return fmt.Errorf("%w: angle range [%v, %v] allows backtracking", ErrInvalidParams, p.Angle.Min, p.Angle.Max)
	}
	return nil
}

// Walk produces the raw control points: each step pushes a random length
// along +x and rotates that extension by a random angle around the previous
// point. With Alternate set the angle sign flips every step.
func Walk(rng *rand.Rand, start cp.Vector, p Params) ([]cp.Vector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	points := make([]cp.Vector, 0, p.Points)
	points = append(points, start)
	sign := 1.0
	prev := start
	for i := 1; i < p.Points; i++ {
		length := p.Length.Sample(rng)
		angle := p.Angle.Sample(rng) * sign
		next := prev.Add(cp.Vector{X: length}.Rotate(cp.ForAngle(angle)))
		points = append(points, next)
		prev = next
		if p.Alternate {
			sign = -sign
		}
	}
	return points, nil
}

// Generate walks from start and interpolates the result into a spline.
func Generate(rng *rand.Rand, start cp.Vector, p Params) (*Curve, error) {
	points, err := Walk(rng, start, p)
	if err != nil {
		return nil, err
	}
	return NewCatmullRom(points)
}
