package system

import (
	"log"

	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

// GameFlowSystem moves the run between start, playing and completed. It
// reads the player's input before anything else so the press that starts or
// restarts a run is not also seen as a jump.
type GameFlowSystem struct {
	subscribed bool
}

func NewGameFlowSystem() *GameFlowSystem { return &GameFlowSystem{} }

func (s *GameFlowSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.subscribe(w)

	_, gs, ok := ecs.First(w, component.GameStateComponent)
	if !ok {
		return
	}
	gs.Frames++

	_, input, _ := ecs.First(w, component.InputComponent)
	jump := input != nil && input.JumpPressed
	restart := input != nil && input.RestartPressed

	switch gs.State {
	case component.StateStart:
		if jump {
			input.JumpPressed = false
			setGameState(w, gs, component.StatePlaying)
		}
	case component.StateCompleted:
		if gs.Frames < gs.RestartDelay || !(jump || restart) {
			return
		}
		input.JumpPressed = false
		input.RestartPressed = false
		w.Events().Publish(ecs.Event{Kind: ecs.EventResetPlayer})
		setGameState(w, gs, component.StateStart)
	}
}

func setGameState(w *ecs.World, gs *component.GameState, state component.GameStateKind) {
	if gs.State == state {
		return
	}
	log.Printf("GameFlow: %s -> %s", gs.State, state)
	gs.State = state
	gs.Frames = 0
	w.Events().Publish(ecs.Event{Kind: ecs.EventGameStateChanged, Value: int(state)})
}

func (s *GameFlowSystem) subscribe(w *ecs.World) {
	if s.subscribed {
		return
	}
	s.subscribed = true
	w.Events().Subscribe(ecs.EventFail, func(ecs.Event) {
		if _, gs, ok := ecs.First(w, component.GameStateComponent); ok && gs.State == component.StatePlaying {
			setGameState(w, gs, component.StateCompleted)
		}
	})
}
