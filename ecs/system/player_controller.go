package system

import (
	"log"

	"github.com/milk9111/downhill/common"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

// maxStateChanges bounds transitions resolved in a single step.
const maxStateChanges = 4

// BodyResetter teleports a physics body. PhysicsSystem implements it.
type BodyResetter interface {
	ResetBody(e ecs.Entity, x, y, angle float64)
}

// PlayerControllerSystem runs the player state machine after each physics
// step and then forces the player kinematics for the next one.
type PlayerControllerSystem struct {
	bodies     BodyResetter
	subscribed bool
}

func NewPlayerControllerSystem(bodies BodyResetter) *PlayerControllerSystem {
	return &PlayerControllerSystem{bodies: bodies}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	p.subscribe(w)

	playing := true
	if _, gs, ok := ecs.First(w, component.GameStateComponent); ok {
		playing = gs.State == component.StatePlaying
	}

	entities := w.Query(
		component.PlayerComponent.Kind(),
		component.PlayerContactComponent.Kind(),
		component.PlayerStateMachineComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
	)
	for _, e := range entities {
		p.step(w, e, playing)
	}
}

func (p *PlayerControllerSystem) step(w *ecs.World, e ecs.Entity, playing bool) {
	player, _ := ecs.Get(w, e, component.PlayerComponent)
	contact, _ := ecs.Get(w, e, component.PlayerContactComponent)
	sm, _ := ecs.Get(w, e, component.PlayerStateMachineComponent)
	bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
	if bodyComp.Body == nil {
		return
	}
	body := bodyComp.Body
	input, _ := ecs.Get(w, e, component.InputComponent)

	// recomputed every step, never carried over from contact events
	player.Grounded = len(contact.Colliding) > 0

	if angle, ok := beneathAngle(w, contact, body.Position().X); ok {
		player.DesiredRotation = angle
	}

	ctx := &component.PlayerStateContext{
		Input:   input,
		Player:  player,
		Contact: contact,
		GetVelocity: func() (float64, float64) {
			v := body.Velocity()
			return v.X, v.Y
		},
		SetVelocity: func(x, y float64) { body.SetVelocity(x, y) },
		GetAngle:    body.Angle,
		ChangeState: func(state component.PlayerState) { sm.Pending = state },
		Fail: func() {
			w.Events().Publish(ecs.Event{Kind: ecs.EventFail, Entity: e})
		},
	}

	if sm.State == nil {
		sm.State = playerStateGrounded
		sm.State.Enter(ctx)
	}

	if playing && !player.Dead {
		for _, o := range contact.Obstacles {
			w.Events().Publish(ecs.Event{Kind: ecs.EventObstacleHit, Entity: ecs.Entity(o)})
		}
		if len(contact.Obstacles) > 0 {
			sm.Pending = playerStateDead
		}
	}
	applyPendingState(sm, ctx)

	if playing {
		sm.State.HandleInput(ctx)
		applyPendingState(sm, ctx)
	}
	sm.State.Update(ctx)
	applyPendingState(sm, ctx)

	vx := 0.0
	if playing && !player.Dead {
		vx = player.Velocity
	}
	body.SetVelocity(vx, body.Velocity().Y)

	if player.Backflipping {
		body.SetAngularVelocity(player.Spin)
		return
	}
	body.SetAngularVelocity(0)
	if !player.Dead {
		a := body.Angle()
		body.SetAngle(a + common.DeltaAngle(a, player.DesiredRotation)*player.AutoRotate)
	}
}

func applyPendingState(sm *component.PlayerStateMachine, ctx *component.PlayerStateContext) {
	for i := 0; sm.Pending != nil; i++ {
		if i == maxStateChanges {
			log.Printf("PlayerController: dropping transition to %s", sm.Pending.Name())
			sm.Pending = nil
			return
		}
		next := sm.Pending
		sm.Pending = nil
		if next == sm.State {
			continue
		}
		sm.State.Exit(ctx)
		sm.State = next
		sm.State.Enter(ctx)
	}
}

// beneathAngle picks the segment the angle sensor touches: the one spanning
// x when there is one, otherwise the furthest along the slope. Ties, such as
// both sides of a seam spanning x, go to the later chunk then the later
// segment so map order never decides.
func beneathAngle(w *ecs.World, contact *component.PlayerContact, x float64) (float64, bool) {
	var (
		best      component.SegmentRef
		bestAngle float64
		bestChunk = -1
		bestSpans bool
		found     bool
	)
	for ref, angle := range contact.Beneath {
		chunk, ok := ecs.Get(w, ecs.Entity(ref.Chunk), component.TerrainChunkComponent)
		if !ok || ref.Index >= len(chunk.Segments) {
			continue
		}
		seg := chunk.Segments[ref.Index]
		spans := x >= seg.X && x <= seg.End().X
		switch {
		case !found:
		case spans != bestSpans:
			if !spans {
				continue
			}
		case chunk.Index < bestChunk:
			continue
		case chunk.Index == bestChunk && ref.Index <= best.Index:
			continue
		}
		best, bestAngle, bestChunk, bestSpans, found = ref, angle, chunk.Index, spans, true
	}
	return bestAngle, found
}

func (p *PlayerControllerSystem) subscribe(w *ecs.World) {
	if p.subscribed {
		return
	}
	p.subscribed = true
	w.Events().Subscribe(ecs.EventResetPlayer, func(ecs.Event) {
		for _, e := range w.Query(component.PlayerComponent.Kind()) {
			ResetPlayer(w, p.bodies, e)
		}
	})
}

// ResetPlayer puts the player back on its spawn pose with every flag and
// contact cleared. Calling it again changes nothing.
func ResetPlayer(w *ecs.World, bodies BodyResetter, e ecs.Entity) {
	player, ok := ecs.Get(w, e, component.PlayerComponent)
	if !ok {
		return
	}
	player.Grounded = false
	player.Backflipping = false
	player.Dead = false
	player.Spin = 0
	player.DesiredRotation = player.SpawnAngle

	if transform, ok := ecs.Get(w, e, component.TransformComponent); ok {
		transform.X = player.SpawnX
		transform.Y = player.SpawnY
		transform.Rotation = player.SpawnAngle
	}
	if bodies != nil {
		bodies.ResetBody(e, player.SpawnX, player.SpawnY, player.SpawnAngle)
	}
	if contact, ok := ecs.Get(w, e, component.PlayerContactComponent); ok {
		contact.Clear()
	}
	if sm, ok := ecs.Get(w, e, component.PlayerStateMachineComponent); ok {
		sm.State = playerStateGrounded
		sm.Pending = nil
	}
	if input, ok := ecs.Get(w, e, component.InputComponent); ok {
		*input = component.Input{}
	}
}
