package entity

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/common"
	"github.com/milk9111/downhill/curve"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/prefabs"
)

var ErrDegenerateSegment = errors.New("terrain: degenerate segment")

// minSegmentLength guards the angle computation against coincident samples.
const minSegmentLength = 1e-6

// ChunkBuilder generates chunk geometry. All chunks of a session share its
// random source so a seed reproduces the whole slope.
type ChunkBuilder struct {
	Spec      prefabs.TerrainSpec
	Rand      *rand.Rand
	Roughness *curve.Roughness
}

func NewChunkBuilder(spec prefabs.TerrainSpec, seed uint64) *ChunkBuilder {
	return &ChunkBuilder{
		Spec:      spec,
		Rand:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Roughness: curve.NewRoughness(int64(seed), spec.Noise.Amplitude, spec.Noise.Frequency),
	}
}

func (b *ChunkBuilder) Params() curve.Params {
	return curve.Params{
		Points:    b.Spec.ControlPoints,
		Length:    curve.Range{Min: b.Spec.SegmentLength.Min, Max: b.Spec.SegmentLength.Max},
		Angle:     curve.Range{Min: common.Deg2Rad(b.Spec.SegmentAngle.Min), Max: common.Deg2Rad(b.Spec.SegmentAngle.Max)},
		Alternate: b.Spec.Alternate,
	}
}

// Build generates the chunk starting exactly at anchor.
func (b *ChunkBuilder) Build(anchor cp.Vector, index int) (*component.TerrainChunk, error) {
	if b.Spec.Subdivisions < 2 {
		return nil, fmt.Errorf("terrain: %w", curve.ErrTooFewSamples)
	}
	c, err := curve.Generate(b.Rand, anchor, b.Params())
	if err != nil {
		return nil, fmt.Errorf("terrain: generate chunk %d: %w", index, err)
	}
	samples, err := c.SpacedPoints(b.Spec.Subdivisions)
	if err != nil {
		return nil, fmt.Errorf("terrain: sample chunk %d: %w", index, err)
	}
	b.Roughness.Apply(samples)

	segments, err := BuildSegments(samples)
	if err != nil {
		return nil, fmt.Errorf("terrain: chunk %d: %w", index, err)
	}

	chunk := &component.TerrainChunk{
		Index:     index,
		Curve:     c,
		Samples:   samples,
		Segments:  segments,
		Thickness: b.Spec.Thickness,
	}
	chunk.Bounds = ChunkBounds(chunk)
	return chunk, nil
}

// BuildSegments pairs consecutive samples into segments.
func BuildSegments(samples []cp.Vector) ([]component.TerrainSegment, error) {
	if len(samples) < 2 {
		return nil, curve.ErrTooFewSamples
	}
	segments := make([]component.TerrainSegment, 0, len(samples)-1)
	for i := 0; i+1 < len(samples); i++ {
		a, b := samples[i], samples[i+1]
		d := b.Sub(a)
		length := d.Length()
		if length < minSegmentLength {
			return nil, fmt.Errorf("%w: samples %d and %d coincide", ErrDegenerateSegment, i, i+1)
		}
		segments = append(segments, component.TerrainSegment{
			X:      a.X,
			Y:      a.Y,
			Angle:  math.Atan2(d.Y, d.X),
			Length: length,
		})
	}
	return segments, nil
}

// SlabVerts returns the counter-clockwise corners of the segment slab: the
// top edge is the segment itself and the slab extends thickness below it.
func SlabVerts(s component.TerrainSegment, thickness float64) []cp.Vector {
	a := cp.Vector{X: s.X, Y: s.Y}
	b := s.End()
	down := cp.Vector{X: math.Sin(s.Angle), Y: -math.Cos(s.Angle)}.Mult(thickness)
	return []cp.Vector{a.Add(down), b.Add(down), b, a}
}

func ChunkBounds(c *component.TerrainChunk) common.Rect {
	r := common.EmptyRect()
	for _, s := range c.Segments {
		for _, v := range SlabVerts(s, c.Thickness) {
			r = r.Extend(v.X, v.Y)
		}
	}
	return r
}

// NewTerrainChunk registers chunk geometry as an entity. Physics shapes are
// attached separately by the stream.
func NewTerrainChunk(w *ecs.World, chunk *component.TerrainChunk) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	start := chunk.Start()
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: start.X, Y: start.Y}); err != nil {
		return 0, fmt.Errorf("terrain: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.TerrainChunkComponent, chunk); err != nil {
		return 0, fmt.Errorf("terrain: add chunk: %w", err)
	}
	return e, nil
}

// NewTerrainStream creates the empty chunk chain rooted at the spec anchor.
func NewTerrainStream(w *ecs.World, spec prefabs.TerrainSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TerrainStreamComponent, &component.TerrainStream{
		AnchorX: spec.Anchor.X,
		AnchorY: spec.Anchor.Y,
		Count:   spec.InitialChunks,
	}); err != nil {
		return 0, fmt.Errorf("terrain: add stream: %w", err)
	}
	return e, nil
}
