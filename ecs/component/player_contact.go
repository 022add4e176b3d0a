package component

// SegmentRef names one terrain segment: the owning chunk entity and the
// segment index inside it.
type SegmentRef struct {
	Chunk uint64
	Index int
}

// PlayerContact holds what the player sensors touched during the last step.
// The maps hold segment angles keyed by segment.
type PlayerContact struct {
	Colliding map[SegmentRef]float64
	Beneath   map[SegmentRef]float64
	Pills     []uint64
	Obstacles []uint64
}

func NewPlayerContact() *PlayerContact {
	return &PlayerContact{
		Colliding: make(map[SegmentRef]float64),
		Beneath:   make(map[SegmentRef]float64),
	}
}

func (c *PlayerContact) Clear() {
	clear(c.Colliding)
	clear(c.Beneath)
	c.Pills = c.Pills[:0]
	c.Obstacles = c.Obstacles[:0]
}

var PlayerContactComponent = NewComponent[PlayerContact]()
