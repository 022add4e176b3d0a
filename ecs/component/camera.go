package component

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/milk9111/downhill/common"
)

// Camera is a perspective camera looking down -z at the point level with
// its own x and y on the z = 0 plane.
type Camera struct {
	Position    r3.Vector
	FovY        float64 // radians
	Aspect      float64
	Near        float64
	Lerp        float64
	FitDistance float64
}

func (c Camera) FovX() float64 {
	return 2 * math.Atan(math.Tan(c.FovY/2)*c.Aspect)
}

// ViewRect is the visible area of the plane at depth z.
func (c Camera) ViewRect(z float64) common.Rect {
	dist := c.Position.Z - z
	halfH := dist * math.Tan(c.FovY/2)
	halfW := halfH * c.Aspect
	return common.Rect{
		MinX: c.Position.X - halfW,
		MinY: c.Position.Y - halfH,
		MaxX: c.Position.X + halfW,
		MaxY: c.Position.Y + halfH,
	}
}

// Project maps a world point to screen pixels for a width x height
// viewport with y growing downward. ok is false behind the near plane.
func (c Camera) Project(p r3.Vector, width, height float64) (sx, sy float64, ok bool) {
	depth := c.Position.Z - p.Z
	near := c.Near
	if near <= 0 {
		near = 0.1
	}
	if depth < near {
		return 0, 0, false
	}
	halfH := depth * math.Tan(c.FovY/2)
	halfW := halfH * c.Aspect
	nx := (p.X - c.Position.X) / halfW
	ny := (p.Y - c.Position.Y) / halfH
	return width / 2 * (1 + nx), height / 2 * (1 - ny), true
}

var CameraComponent = NewComponent[Camera]()
