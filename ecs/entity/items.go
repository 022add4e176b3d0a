package entity

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/prefabs"
)

func addChunkItem(w *ecs.World, e, chunk ecs.Entity, sample int, x, y, rotation, halfW, halfH float64) error {
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: x, Y: y, Rotation: rotation}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.ChunkItemComponent, &component.ChunkItem{Chunk: uint64(chunk), Sample: sample}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.CullableComponent, &component.Cullable{HalfWidth: halfW, HalfHeight: halfH})
}

// NewPill places a pill hovering above the ground point at.
func NewPill(w *ecs.World, chunk ecs.Entity, sample int, at cp.Vector, spec prefabs.PillSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	y := at.Y + spec.Hover
	if err := addChunkItem(w, e, chunk, sample, at.X, y, 0, spec.Radius, spec.Radius); err != nil {
		return 0, fmt.Errorf("pill: %w", err)
	}
	if err := ecs.Add(w, e, component.PillComponent, &component.Pill{}); err != nil {
		return 0, fmt.Errorf("pill: add pill: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
		Role:   component.RolePill,
		Radius: spec.Radius,
		Static: true,
	}); err != nil {
		return 0, fmt.Errorf("pill: add physics body: %w", err)
	}
	return e, nil
}

// NewObstacle stands an obstacle on the ground point at, tilted to the local
// slope angle.
func NewObstacle(w *ecs.World, chunk ecs.Entity, sample int, at cp.Vector, angle float64, spec prefabs.ObstacleSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	up := cp.Vector{X: -math.Sin(angle), Y: math.Cos(angle)}
	center := at.Add(up.Mult(spec.Height / 2))
	half := math.Hypot(spec.Width, spec.Height) / 2
	if err := addChunkItem(w, e, chunk, sample, center.X, center.Y, angle, half, half); err != nil {
		return 0, fmt.Errorf("obstacle: %w", err)
	}
	if err := ecs.Add(w, e, component.ObstacleComponent, &component.Obstacle{}); err != nil {
		return 0, fmt.Errorf("obstacle: add obstacle: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
		Role:   component.RoleObstacle,
		Width:  spec.Width,
		Height: spec.Height,
		Static: true,
	}); err != nil {
		return 0, fmt.Errorf("obstacle: add physics body: %w", err)
	}
	return e, nil
}
