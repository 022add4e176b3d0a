package system

import (
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

// ApplyInput copies one frame of driver input onto every input component.
// Press edges accumulate until ClearInput runs, so a press seen between two
// fixed steps is not lost.
func ApplyInput(w *ecs.World, in component.Input) {
	ecs.ForEach(w, component.InputComponent, func(_ ecs.Entity, input *component.Input) {
		input.JumpPressed = input.JumpPressed || in.JumpPressed
		input.RestartPressed = input.RestartPressed || in.RestartPressed
	})
}

func ClearInput(w *ecs.World) {
	ecs.ForEach(w, component.InputComponent, func(_ ecs.Entity, input *component.Input) {
		*input = component.Input{}
	})
}
