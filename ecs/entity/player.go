package entity

import (
	"fmt"

	"github.com/milk9111/downhill/common"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/prefabs"
)

// NewPlayer creates the player at its spawn pose. Bodies and sensors are
// created by the physics system on its next update.
func NewPlayer(w *ecs.World, spec prefabs.PlayerSpec) (ecs.Entity, error) {
	player := ecs.CreateEntity(w)
	angle := common.Deg2Rad(spec.Spawn.Angle)

	if err := ecs.Add(w, player, component.TransformComponent, &component.Transform{
		X:        spec.Spawn.X,
		Y:        spec.Spawn.Y,
		Rotation: angle,
	}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, player, component.PlayerComponent, &component.Player{
		SpawnX:          spec.Spawn.X,
		SpawnY:          spec.Spawn.Y,
		SpawnAngle:      angle,
		Velocity:        spec.Velocity,
		JumpImpulse:     spec.JumpImpulse,
		BackflipImpulse: spec.BackflipImpulse,
		AutoRotate:      spec.AutoRotate,
		FailAngle:       common.Deg2Rad(spec.FailAngle),
		DesiredRotation: angle,
	}); err != nil {
		return 0, fmt.Errorf("player: add player: %w", err)
	}
	if err := ecs.Add(w, player, component.PhysicsBodyComponent, &component.PhysicsBody{
		Role:   component.RolePlayerBody,
		Width:  spec.Size.Width,
		Height: spec.Size.Height,
		Mass:   spec.Mass,
	}); err != nil {
		return 0, fmt.Errorf("player: add physics body: %w", err)
	}
	if err := ecs.Add(w, player, component.PlayerSensorsComponent, &component.PlayerSensors{
		GroundWidth:  spec.GroundSensor.Width,
		GroundHeight: spec.GroundSensor.Height,
		AngleWidth:   spec.AngleSensor.Width,
		AngleHeight:  spec.AngleSensor.Height,
		AngleOffset:  spec.AngleSensor.Offset,
	}); err != nil {
		return 0, fmt.Errorf("player: add sensors: %w", err)
	}
	if err := ecs.Add(w, player, component.PlayerContactComponent, component.NewPlayerContact()); err != nil {
		return 0, fmt.Errorf("player: add contact: %w", err)
	}
	if err := ecs.Add(w, player, component.PlayerStateMachineComponent, &component.PlayerStateMachine{}); err != nil {
		return 0, fmt.Errorf("player: add state machine: %w", err)
	}
	if err := ecs.Add(w, player, component.InputComponent, &component.Input{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	return player, nil
}
