package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/downhill/ecs/component"
)

// Input polls keyboard, mouse and gamepads into one frame of presses.
type Input struct {
	gamepads []ebiten.GamepadID

	// queued from overlay buttons, consumed by the next Poll
	queued component.Input
}

func NewInput() *Input {
	return &Input{}
}

func (i *Input) Queue(in component.Input) {
	i.queued.JumpPressed = i.queued.JumpPressed || in.JumpPressed
	i.queued.RestartPressed = i.queued.RestartPressed || in.RestartPressed
}

func (i *Input) Poll() component.Input {
	in := i.queued
	i.queued = component.Input{}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.JumpPressed = true
	}
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		in.JumpPressed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		in.RestartPressed = true
	}

	i.gamepads = ebiten.AppendGamepadIDs(i.gamepads[:0])
	for _, id := range i.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			in.JumpPressed = true
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight) {
			in.RestartPressed = true
		}
	}
	return in
}
