package view

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

// Point is a position in screen pixels, y down.
type Point struct {
	X, Y float64
}

type Line struct {
	A, B Point
}

type Circle struct {
	Center Point
	Radius float64
}

// Quad is a projected box, corners in winding order.
type Quad [4]Point

func (q Quad) Center() Point {
	return Point{
		X: (q[0].X + q[1].X + q[2].X + q[3].X) / 4,
		Y: (q[0].Y + q[1].Y + q[2].Y + q[3].Y) / 4,
	}
}

// Scene is one frame of the world flattened to screen space. Both frontends
// rasterise it their own way.
type Scene struct {
	Width, Height float64

	Surface   []Line // top edge of the slope
	Underside []Line // bottom edge of the slab
	Player    Quad
	HasPlayer bool
	Dead      bool
	Pills     []Circle
	Obstacles []Quad
}

// Project flattens the world through its camera for a viewport of the given
// size. Nothing is drawn without a camera.
func Project(w *ecs.World, width, height float64) Scene {
	sc := Scene{Width: width, Height: height}
	_, cam, ok := ecs.First(w, component.CameraComponent)
	if !ok || width <= 0 || height <= 0 {
		return sc
	}
	p := projector{cam: *cam, width: width, height: height}

	if _, stream, ok := ecs.First(w, component.TerrainStreamComponent); ok {
		for _, id := range stream.Chunks {
			chunk, ok := ecs.Get(w, ecs.Entity(id), component.TerrainChunkComponent)
			if !ok {
				continue
			}
			p.chunk(&sc, chunk)
		}
	}

	ecs.ForEach3(w, component.PillComponent, component.TransformComponent, component.PhysicsBodyComponent,
		func(_ ecs.Entity, pill *component.Pill, t *component.Transform, body *component.PhysicsBody) {
			if pill.Collected {
				return
			}
			c, ok := p.point(t.X, t.Y)
			if !ok {
				return
			}
			edge, _ := p.point(t.X+body.Radius, t.Y)
			sc.Pills = append(sc.Pills, Circle{Center: c, Radius: math.Abs(edge.X - c.X)})
		})

	ecs.ForEach3(w, component.ObstacleComponent, component.TransformComponent, component.PhysicsBodyComponent,
		func(_ ecs.Entity, _ *component.Obstacle, t *component.Transform, body *component.PhysicsBody) {
			if q, ok := p.box(t, body.Width, body.Height); ok {
				sc.Obstacles = append(sc.Obstacles, q)
			}
		})

	ecs.ForEach3(w, component.PlayerComponent, component.TransformComponent, component.PhysicsBodyComponent,
		func(_ ecs.Entity, player *component.Player, t *component.Transform, body *component.PhysicsBody) {
			if q, ok := p.box(t, body.Width, body.Height); ok {
				sc.Player = q
				sc.HasPlayer = true
				sc.Dead = player.Dead
			}
		})

	return sc
}

type projector struct {
	cam           component.Camera
	width, height float64
}

func (p projector) point(x, y float64) (Point, bool) {
	sx, sy, ok := p.cam.Project(r3.Vector{X: x, Y: y}, p.width, p.height)
	return Point{X: sx, Y: sy}, ok
}

func (p projector) line(a, b cp.Vector) (Line, bool) {
	pa, ok := p.point(a.X, a.Y)
	if !ok {
		return Line{}, false
	}
	pb, ok := p.point(b.X, b.Y)
	if !ok {
		return Line{}, false
	}
	return Line{A: pa, B: pb}, true
}

func (p projector) chunk(sc *Scene, chunk *component.TerrainChunk) {
	for i := 1; i < len(chunk.Samples); i++ {
		a, b := chunk.Samples[i-1], chunk.Samples[i]
		if l, ok := p.line(a, b); ok {
			sc.Surface = append(sc.Surface, l)
		}
		down := cp.Vector{Y: -chunk.Thickness}
		if l, ok := p.line(a.Add(down), b.Add(down)); ok {
			sc.Underside = append(sc.Underside, l)
		}
	}
}

func (p projector) box(t *component.Transform, width, height float64) (Quad, bool) {
	hw, hh := width/2, height/2
	cos, sin := math.Cos(t.Rotation), math.Sin(t.Rotation)
	corners := [4]cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	var q Quad
	for i, c := range corners {
		pt, ok := p.point(t.X+c.X*cos-c.Y*sin, t.Y+c.X*sin+c.Y*cos)
		if !ok {
			return Quad{}, false
		}
		q[i] = pt
	}
	return q, true
}
