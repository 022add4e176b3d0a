package component

// Input stores edge-triggered presses for one frame. Drivers set them before
// a frame and the session clears them after it.
type Input struct {
	JumpPressed    bool
	RestartPressed bool
}

var InputComponent = NewComponent[Input]()
