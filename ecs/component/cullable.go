package component

// Cullable marks entities destroyed once they fall wholly behind the left
// edge of the view.
type Cullable struct {
	HalfWidth  float64
	HalfHeight float64
	InView     bool
	Seen       bool
}

var CullableComponent = NewComponent[Cullable]()
