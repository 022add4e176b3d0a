package curve

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/ojrac/opensimplex-go"
)

// Roughness perturbs sampled points vertically with 2D simplex noise. The
// noise is read in world space so neighbouring chunks agree, and it fades to
// zero at both ends of a sample run so chunk endpoints never move.
type Roughness struct {
	Amplitude float64
	Frequency float64

	noise opensimplex.Noise
}

func NewRoughness(seed int64, amplitude, frequency float64) *Roughness {
	return &Roughness{
		Amplitude: amplitude,
		Frequency: frequency,
		noise:     opensimplex.New(seed),
	}
}

// Apply perturbs points in place.
func (r *Roughness) Apply(points []cp.Vector) {
	if r == nil || r.noise == nil || r.Amplitude == 0 || len(points) < 3 {
		return
	}
	last := len(points) - 1
	for i := 1; i < last; i++ {
		u := float64(i) / float64(last)
		fade := math.Sin(math.Pi * u)
		p := points[i]
		p.Y += r.Amplitude * fade * r.noise.Eval2(p.X*r.Frequency, p.Y*r.Frequency)
		points[i] = p
	}
}
