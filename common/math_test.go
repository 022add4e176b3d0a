package common

import (
	"math"
	"testing"
)

func TestDeltaAngle(t *testing.T) {
	cases := []struct {
		name    string
		current float64
		target  float64
		want    float64
	}{
		{"zero", 0, 0, 0},
		{"half_turn", 0, math.Pi, math.Pi},
		{"small_negative", 0.1, -0.1, -0.2},
		{"small_positive", -0.1, 0.1, 0.2},
		{"wrap_forward", math.Pi - 0.1, -math.Pi + 0.1, 0.2},
		{"wrap_backward", -math.Pi + 0.1, math.Pi - 0.1, -0.2},
		{"full_turns_ignored", 0, 4*math.Pi + 0.3, 0.3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DeltaAngle(c.current, c.target)
			if math.Abs(math.Abs(got)-math.Abs(c.want)) > 1e-9 {
				t.Fatalf("DeltaAngle(%v, %v) = %v, want %v", c.current, c.target, got, c.want)
			}
			if c.want != 0 && math.Abs(c.want) != math.Pi && math.Signbit(got) != math.Signbit(c.want) {
				t.Fatalf("DeltaAngle(%v, %v) = %v, wrong sign (want %v)", c.current, c.target, got, c.want)
			}
		})
	}
}

func TestDeltaAngleBounded(t *testing.T) {
	for a := -10.0; a <= 10.0; a += 0.37 {
		for b := -10.0; b <= 10.0; b += 0.41 {
			d := DeltaAngle(a, b)
			if math.Abs(d) > math.Pi+1e-12 {
				t.Fatalf("|DeltaAngle(%v, %v)| = %v exceeds pi", a, b, d)
			}
			// applying the delta must land on the target modulo a full turn
			r := math.Mod(a+d-b, 2*math.Pi)
			if math.Abs(r) > 1e-9 && math.Abs(math.Abs(r)-2*math.Pi) > 1e-9 {
				t.Fatalf("a+DeltaAngle(a,b) != b mod 2pi for a=%v b=%v (rem %v)", a, b, r)
			}
		}
	}
}

func TestMeanAngle(t *testing.T) {
	if got := MeanAngle(nil); got != 0 {
		t.Fatalf("expected 0 for no angles, got %v", got)
	}
	if got := MeanAngle([]float64{-0.2, -0.4}); math.Abs(got+0.3) > 1e-12 {
		t.Fatalf("expected -0.3, got %v", got)
	}
}

func TestRectIntersects(t *testing.T) {
	r := EmptyRect().Extend(0, 0).Extend(2, 1)
	if r.Width() != 2 || r.Height() != 1 {
		t.Fatalf("unexpected rect %+v", r)
	}
	if !r.Intersects(Rect{MinX: 1, MinY: 0.5, MaxX: 3, MaxY: 3}) {
		t.Fatalf("expected overlap")
	}
	if r.Intersects(Rect{MinX: 2.5, MinY: 0, MaxX: 3, MaxY: 1}) {
		t.Fatalf("expected no overlap")
	}
}
