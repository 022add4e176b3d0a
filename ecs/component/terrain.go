package component

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/common"
	"github.com/milk9111/downhill/curve"
)

// TerrainSegment is one collision primitive: a thin slab whose top edge runs
// from (X, Y) for Length along Angle.
type TerrainSegment struct {
	X      float64
	Y      float64
	Angle  float64
	Length float64
	Shape  *cp.Shape
}

func (s TerrainSegment) End() cp.Vector {
	return cp.Vector{X: s.X + s.Length*math.Cos(s.Angle), Y: s.Y + s.Length*math.Sin(s.Angle)}
}

// TerrainChunk is one spawned piece of the slope. Its shapes are attached to
// the physics space all at once and detached all at once.
type TerrainChunk struct {
	Index     int
	Curve     *curve.Curve
	Samples   []cp.Vector
	Segments  []TerrainSegment
	Bounds    common.Rect
	Thickness float64
	Attached  bool
}

func (c *TerrainChunk) Start() cp.Vector {
	return c.Samples[0]
}

func (c *TerrainChunk) End() cp.Vector {
	return c.Samples[len(c.Samples)-1]
}

// AngleAt is the slope angle at sample i. The last sample has no segment of
// its own and takes the angle of the one before it.
func (c *TerrainChunk) AngleAt(i int) float64 {
	if len(c.Segments) == 0 {
		return 0
	}
	if i >= len(c.Segments) {
		i = len(c.Segments) - 1
	}
	if i < 0 {
		i = 0
	}
	return c.Segments[i].Angle
}

// SegmentAt returns the index of the segment spanning world x.
func (c *TerrainChunk) SegmentAt(x float64) (int, bool) {
	for i, s := range c.Segments {
		if x >= s.X && x <= s.End().X {
			return i, true
		}
	}
	return 0, false
}

var TerrainChunkComponent = NewComponent[TerrainChunk]()

// TerrainStream is the ordered chain of live chunks, oldest first.
type TerrainStream struct {
	Chunks  []uint64
	AnchorX float64
	AnchorY float64
	Count   int
	Spawned int
}

var TerrainStreamComponent = NewComponent[TerrainStream]()
