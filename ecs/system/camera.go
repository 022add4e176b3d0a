package system

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/common"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RayCaster finds the first terrain point along a segment. PhysicsSystem
// implements it.
type RayCaster interface {
	RayFirst(from, to cp.Vector) (cp.Vector, bool)
}

// CameraSystem keeps the player and the ground under it framed. The camera
// follows a focus point found by casting straight down from the player,
// blends between per-state offsets, and while playing backs away from the
// slope far enough to fit the gap below the player.
type CameraSystem struct {
	rays RayCaster
	dt   float64

	state    component.GameStateKind
	hasState bool
}

func NewCameraSystem(rays RayCaster, dt float64) *CameraSystem {
	return &CameraSystem{rays: rays, dt: dt}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	camEnt, ok := w.First(component.CameraComponent.Kind(), component.CameraRigComponent.Kind())
	if !ok {
		return
	}
	cam, _ := ecs.Get(w, camEnt, component.CameraComponent)
	rig, _ := ecs.Get(w, camEnt, component.CameraRigComponent)

	_, playerTransform, ok := firstPlayerTransform(w)
	if !ok {
		return
	}

	state := component.StatePlaying
	if _, gs, ok := ecs.First(w, component.GameStateComponent); ok {
		state = gs.State
	}

	orientation := component.OrientationFor(cam.Aspect)
	if rig.LockPortrait {
		orientation = component.Portrait
	}
	switch {
	case !cs.hasState:
		cs.state, cs.hasState = state, true
		rig.Orientation = orientation
	case state != cs.state || orientation != rig.Orientation:
		cs.state = state
		rig.Orientation = orientation
		cs.beginTransition(cam, rig, state)
	}
	cs.advance(cam, rig, state)

	player := r3.Vector{X: playerTransform.X, Y: playerTransform.Y}
	ground, hit := cs.ground(rig, player)
	focus := player
	if hit {
		focus = ground
	}

	target := focus.Add(rig.Offset)
	cam.Position.X = target.X
	cam.Position.Y = common.Lerp(cam.Position.Y, target.Y, cam.Lerp)
	z := common.Lerp(cam.Position.Z, target.Z, cam.Lerp)

	if state == component.StatePlaying && !rig.Transitioning() {
		if hit {
			height := math.Max(player.Y-ground.Y, 0) + rig.RayLift
			cam.FitDistance = math.Max(cam.FitDistance, FitDistance(rig.FrameWidth, height, rig.FrameDepth, cam.FovX(), cam.FovY))
		}
		z = math.Max(z, cam.FitDistance)
	}
	cam.Position.Z = z
}

// FitDistance is the camera distance at which a width x height box of the
// given depth fits both field of view angles.
func FitDistance(width, height, depth, fovX, fovY float64) float64 {
	horizontal := depth/2 + width/(2*math.Tan(fovX/2))
	vertical := depth/2 + height/(2*math.Tan(fovY/2))
	return math.Max(horizontal, vertical)
}

func (cs *CameraSystem) ground(rig *component.CameraRig, player r3.Vector) (r3.Vector, bool) {
	if cs.rays == nil || rig.RayLength <= 0 {
		return r3.Vector{}, false
	}
	from := cp.Vector{X: player.X, Y: player.Y + rig.RayLift}
	to := cp.Vector{X: player.X, Y: from.Y - rig.RayLength}
	p, ok := cs.rays.RayFirst(from, to)
	if !ok {
		return r3.Vector{}, false
	}
	return r3.Vector{X: p.X, Y: p.Y}, true
}

// beginTransition tweens the offset toward the preset for state. The camera
// tracks rigidly until the tween lands.
func (cs *CameraSystem) beginTransition(cam *component.Camera, rig *component.CameraRig, state component.GameStateKind) {
	target := rig.Offsets().For(state)
	cam.FitDistance = 0
	cam.Lerp = 1
	rig.LerpTween = nil

	if rig.TransitionDuration <= 0 {
		rig.Offset = target
		rig.OffsetTweens = [3]*gween.Tween{}
		cs.settle(cam, rig, state)
		return
	}
	d := float32(rig.TransitionDuration)
	rig.OffsetTweens = [3]*gween.Tween{
		gween.New(float32(rig.Offset.X), float32(target.X), d, ease.InOutQuad),
		gween.New(float32(rig.Offset.Y), float32(target.Y), d, ease.InOutQuad),
		gween.New(float32(rig.Offset.Z), float32(target.Z), d, ease.InOutQuad),
	}
}

func (cs *CameraSystem) advance(cam *component.Camera, rig *component.CameraRig, state component.GameStateKind) {
	dt := float32(cs.dt)
	if rig.Transitioning() {
		x, doneX := rig.OffsetTweens[0].Update(dt)
		y, doneY := rig.OffsetTweens[1].Update(dt)
		z, doneZ := rig.OffsetTweens[2].Update(dt)
		rig.Offset = r3.Vector{X: float64(x), Y: float64(y), Z: float64(z)}
		if doneX && doneY && doneZ {
			rig.Offset = rig.Offsets().For(state)
			rig.OffsetTweens = [3]*gween.Tween{}
			cs.settle(cam, rig, state)
		}
		return
	}
	if rig.LerpTween != nil {
		v, done := rig.LerpTween.Update(dt)
		cam.Lerp = float64(v)
		if done {
			cam.Lerp = rig.PlayingLerp
			rig.LerpTween = nil
		}
	}
}

// settle snaps the follow rate to rigid and, while playing, eases it down
// to the playing rate.
func (cs *CameraSystem) settle(cam *component.Camera, rig *component.CameraRig, state component.GameStateKind) {
	cam.Lerp = 1
	if state != component.StatePlaying {
		return
	}
	if rig.LerpDuration <= 0 {
		cam.Lerp = rig.PlayingLerp
		return
	}
	rig.LerpTween = gween.New(1, float32(rig.PlayingLerp), float32(rig.LerpDuration), ease.OutQuad)
}

func firstPlayerTransform(w *ecs.World) (ecs.Entity, *component.Transform, bool) {
	e, ok := w.First(component.PlayerComponent.Kind(), component.TransformComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent)
	return e, t, ok
}
