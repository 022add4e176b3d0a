package entity

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/milk9111/downhill/common"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/prefabs"
)

func offsets(spec prefabs.OffsetsSpec) component.CameraOffsets {
	vec := func(v prefabs.Vec3Spec) r3.Vector { return r3.Vector{X: v.X, Y: v.Y, Z: v.Z} }
	return component.CameraOffsets{
		Start:     vec(spec.Start),
		Playing:   vec(spec.Playing),
		Completed: vec(spec.Completed),
	}
}

// NewCamera creates the camera framing (focusX, focusY) with the start preset
// of the orientation matching aspect, unless forcePortrait is set.
func NewCamera(w *ecs.World, spec prefabs.CameraSpec, aspect float64, forcePortrait bool, focusX, focusY float64) (ecs.Entity, error) {
	orientation := component.OrientationFor(aspect)
	if forcePortrait {
		orientation = component.Portrait
	}

	rig := &component.CameraRig{
		Landscape:          offsets(spec.Landscape),
		Portrait:           offsets(spec.Portrait),
		Orientation:        orientation,
		LockPortrait:       forcePortrait,
		PlayingLerp:        spec.PlayingLerp,
		TransitionDuration: spec.TransitionDuration,
		LerpDuration:       spec.LerpDuration,
		RayLength:          spec.RayLength,
		RayLift:            spec.RayLift,
		FrameWidth:         spec.Frame.Width,
		FrameDepth:         spec.Frame.Depth,
	}
	rig.Offset = rig.Offsets().Start

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraComponent, &component.Camera{
		Position: r3.Vector{X: focusX + rig.Offset.X, Y: focusY + rig.Offset.Y, Z: rig.Offset.Z},
		FovY:     common.Deg2Rad(spec.Fov),
		Aspect:   aspect,
		Near:     spec.Near,
		Lerp:     spec.StartLerp,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraRigComponent, rig); err != nil {
		return 0, fmt.Errorf("camera: add rig: %w", err)
	}
	return camera, nil
}
