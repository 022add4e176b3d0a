package component

import (
	"github.com/golang/geo/r3"
	"github.com/tanema/gween"
)

type Orientation uint8

const (
	Landscape Orientation = iota
	Portrait
)

func (o Orientation) String() string {
	if o == Portrait {
		return "portrait"
	}
	return "landscape"
}

// OrientationFor picks portrait for viewports taller than wide.
func OrientationFor(aspect float64) Orientation {
	if aspect < 1 {
		return Portrait
	}
	return Landscape
}

// CameraOffsets are the target offsets from the focus point for each game
// state.
type CameraOffsets struct {
	Start     r3.Vector
	Playing   r3.Vector
	Completed r3.Vector
}

func (o CameraOffsets) For(state GameStateKind) r3.Vector {
	switch state {
	case StatePlaying:
		return o.Playing
	case StateCompleted:
		return o.Completed
	default:
		return o.Start
	}
}

// CameraRig drives the camera: where the current offset is heading, how fast
// the camera follows, and the framing volume kept in view while playing.
type CameraRig struct {
	Landscape   CameraOffsets
	Portrait    CameraOffsets
	Orientation Orientation
	// LockPortrait keeps the portrait presets whatever the aspect.
	LockPortrait bool
	Offset       r3.Vector

	PlayingLerp        float64
	TransitionDuration float64
	LerpDuration       float64
	RayLength          float64
	RayLift            float64
	FrameWidth         float64
	FrameDepth         float64

	OffsetTweens [3]*gween.Tween
	LerpTween    *gween.Tween
}

func (r *CameraRig) Offsets() CameraOffsets {
	if r.Orientation == Portrait {
		return r.Portrait
	}
	return r.Landscape
}

func (r *CameraRig) Transitioning() bool {
	return r.OffsetTweens[0] != nil
}

var CameraRigComponent = NewComponent[CameraRig]()
