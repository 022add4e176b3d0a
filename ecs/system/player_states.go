package system

import (
	"math"

	"github.com/milk9111/downhill/common"
	"github.com/milk9111/downhill/ecs/component"
)

// Player state singletons (avoid allocations on transitions).
var (
	playerStateGrounded component.PlayerState = &playerGroundedState{}
	playerStateAirborne component.PlayerState = &playerAirborneState{}
	playerStateBackflip component.PlayerState = &playerBackflipState{}
	playerStateDead     component.PlayerState = &playerDeadState{}
)

type playerGroundedState struct{}

type playerAirborneState struct{}

type playerBackflipState struct{}

type playerDeadState struct{}

func (playerGroundedState) Name() string { return "grounded" }
func (playerGroundedState) Enter(ctx *component.PlayerStateContext) {
	ctx.Player.Backflipping = false
	ctx.Player.Spin = 0
}
func (playerGroundedState) Exit(ctx *component.PlayerStateContext) {}
func (playerGroundedState) HandleInput(ctx *component.PlayerStateContext) {
	if ctx.Input == nil || !ctx.Input.JumpPressed || !ctx.Player.Grounded {
		return
	}
	x, _ := ctx.GetVelocity()
	ctx.SetVelocity(x, ctx.Player.JumpImpulse)
}
func (playerGroundedState) Update(ctx *component.PlayerStateContext) {
	if !ctx.Player.Grounded {
		ctx.ChangeState(playerStateAirborne)
	}
}

func (playerAirborneState) Name() string { return "airborne" }
func (playerAirborneState) Enter(ctx *component.PlayerStateContext) {}
func (playerAirborneState) Exit(ctx *component.PlayerStateContext)  {}
func (playerAirborneState) HandleInput(ctx *component.PlayerStateContext) {
	if ctx.Input == nil || !ctx.Input.JumpPressed || ctx.Player.Grounded {
		return
	}
	ctx.Player.Spin += ctx.Player.BackflipImpulse
	ctx.ChangeState(playerStateBackflip)
}
func (playerAirborneState) Update(ctx *component.PlayerStateContext) {
	if ctx.Player.Grounded {
		land(ctx)
	}
}

func (playerBackflipState) Name() string { return "backflipping" }
func (playerBackflipState) Enter(ctx *component.PlayerStateContext) {
	ctx.Player.Backflipping = true
}
func (playerBackflipState) Exit(ctx *component.PlayerStateContext) {}
func (playerBackflipState) HandleInput(ctx *component.PlayerStateContext) {
	// every further press edge adds one more impulse
	if ctx.Input == nil || !ctx.Input.JumpPressed || ctx.Player.Grounded {
		return
	}
	ctx.Player.Spin += ctx.Player.BackflipImpulse
}
func (playerBackflipState) Update(ctx *component.PlayerStateContext) {
	if ctx.Player.Grounded {
		land(ctx)
	}
}

func (playerDeadState) Name() string { return "dead" }
func (playerDeadState) Enter(ctx *component.PlayerStateContext) {
	ctx.Player.Dead = true
	ctx.Player.Backflipping = false
	ctx.Player.Spin = 0
	if ctx.Fail != nil {
		ctx.Fail()
	}
}
func (playerDeadState) Exit(ctx *component.PlayerStateContext) {
	ctx.Player.Dead = false
}
func (playerDeadState) HandleInput(ctx *component.PlayerStateContext) {}
func (playerDeadState) Update(ctx *component.PlayerStateContext)      {}

// land compares the body angle with the mean angle of every touched segment
// and either kills the player or settles it on the ground.
func land(ctx *component.PlayerStateContext) {
	if landingFails(ctx.GetAngle(), ctx.Contact, ctx.Player.FailAngle) {
		ctx.ChangeState(playerStateDead)
		return
	}
	ctx.ChangeState(playerStateGrounded)
}

func landingFails(bodyAngle float64, contact *component.PlayerContact, failAngle float64) bool {
	if contact == nil || len(contact.Colliding) == 0 {
		return false
	}
	angles := make([]float64, 0, len(contact.Colliding))
	for _, a := range contact.Colliding {
		angles = append(angles, a)
	}
	delta := common.DeltaAngle(bodyAngle, common.MeanAngle(angles))
	return math.Abs(delta) >= failAngle
}
