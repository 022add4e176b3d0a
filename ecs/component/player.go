package component

type Player struct {
	SpawnX     float64
	SpawnY     float64
	SpawnAngle float64

	Velocity        float64
	JumpImpulse     float64
	BackflipImpulse float64
	AutoRotate      float64
	FailAngle       float64 // radians

	DesiredRotation float64
	Spin            float64
	Grounded        bool
	Backflipping    bool
	Dead            bool
}

var PlayerComponent = NewComponent[Player]()
