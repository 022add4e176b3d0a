package system

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/ecs/entity"
)

// ChunkBodies attaches and detaches chunk physics. PhysicsSystem implements it.
type ChunkBodies interface {
	AttachChunk(e ecs.Entity, chunk *component.TerrainChunk)
	DetachChunk(e ecs.Entity, chunk *component.TerrainChunk)
}

// TerrainSystem streams chunks: it keeps a fixed number of chained chunks
// alive, evicting those wholly left of the view and appending one
// replacement per eviction at the end of the chain.
type TerrainSystem struct {
	builder    *entity.ChunkBuilder
	bodies     ChunkBodies
	subscribed bool
}

func NewTerrainSystem(builder *entity.ChunkBuilder, bodies ChunkBodies) *TerrainSystem {
	return &TerrainSystem{builder: builder, bodies: bodies}
}

func (ts *TerrainSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ts.subscribe(w)

	_, stream, ok := ecs.First(w, component.TerrainStreamComponent)
	if !ok {
		return
	}
	// tops up after a failed spawn as well as seeding an empty stream
	if len(stream.Chunks) < stream.Count {
		if err := ts.Initialize(w); err != nil {
			log.Printf("TerrainSystem: %v", err)
			return
		}
	}

	_, cam, ok := ecs.First(w, component.CameraComponent)
	if !ok {
		return
	}
	if _, err := ts.Evict(w, cam.ViewRect(0).MinX); err != nil {
		log.Printf("TerrainSystem: %v", err)
	}
}

// Initialize seeds the stream with its configured count of chunks chained
// from the anchor.
func (ts *TerrainSystem) Initialize(w *ecs.World) error {
	_, stream, ok := ecs.First(w, component.TerrainStreamComponent)
	if !ok {
		return fmt.Errorf("terrain: no stream")
	}
	anchor := cp.Vector{X: stream.AnchorX, Y: stream.AnchorY}
	if n := len(stream.Chunks); n > 0 {
		anchor = ts.chunkEnd(w, stream.Chunks[n-1])
	}
	for len(stream.Chunks) < stream.Count {
		next, err := ts.spawn(w, stream, anchor)
		if err != nil {
			return err
		}
		anchor = next
	}
	return nil
}

// Evict removes every chunk whose right edge is left of left and spawns one
// replacement for each, all anchored on the newest chain end. It returns the
// number of chunks evicted.
func (ts *TerrainSystem) Evict(w *ecs.World, left float64) (int, error) {
	_, stream, ok := ecs.First(w, component.TerrainStreamComponent)
	if !ok || len(stream.Chunks) == 0 {
		return 0, nil
	}

	// first pass collects, second pass removes
	var stale []uint64
	for _, id := range stream.Chunks {
		chunk, ok := ecs.Get(w, ecs.Entity(id), component.TerrainChunkComponent)
		if !ok || chunk.Bounds.MaxX < left {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	anchor := ts.chunkEnd(w, stream.Chunks[len(stream.Chunks)-1])
	for _, id := range stale {
		ts.remove(w, stream, id)
	}
	for range stale {
		next, err := ts.spawn(w, stream, anchor)
		if err != nil {
			return len(stale), err
		}
		anchor = next
	}
	return len(stale), nil
}

// Reset drops every chunk and item and rebuilds the chain from the initial
// anchor.
func (ts *TerrainSystem) Reset(w *ecs.World) error {
	_, stream, ok := ecs.First(w, component.TerrainStreamComponent)
	if !ok {
		return nil
	}
	ecs.ForEach(w, component.ChunkItemComponent, func(e ecs.Entity, _ *component.ChunkItem) {
		ecs.DestroyEntity(w, e)
	})
	for _, id := range append([]uint64(nil), stream.Chunks...) {
		ts.remove(w, stream, id)
	}
	stream.Spawned = 0
	return ts.Initialize(w)
}

func (ts *TerrainSystem) chunkEnd(w *ecs.World, id uint64) cp.Vector {
	chunk, ok := ecs.Get(w, ecs.Entity(id), component.TerrainChunkComponent)
	if !ok {
		_, stream, _ := ecs.First(w, component.TerrainStreamComponent)
		return cp.Vector{X: stream.AnchorX, Y: stream.AnchorY}
	}
	return chunk.End()
}

func (ts *TerrainSystem) spawn(w *ecs.World, stream *component.TerrainStream, anchor cp.Vector) (cp.Vector, error) {
	chunk, err := ts.builder.Build(anchor, stream.Spawned)
	if err != nil {
		return anchor, err
	}
	e, err := entity.NewTerrainChunk(w, chunk)
	if err != nil {
		return anchor, err
	}
	if ts.bodies != nil {
		ts.bodies.AttachChunk(e, chunk)
	}
	stream.Chunks = append(stream.Chunks, uint64(e))
	stream.Spawned++
	w.Events().Publish(ecs.Event{Kind: ecs.EventChunkSpawned, Entity: e, Value: chunk.Index})

	if chunk.Index >= ts.builder.Spec.ItemsFromChunk {
		ts.placeItems(w, e, chunk)
	}
	return chunk.End(), nil
}

func (ts *TerrainSystem) remove(w *ecs.World, stream *component.TerrainStream, id uint64) {
	e := ecs.Entity(id)
	if chunk, ok := ecs.Get(w, e, component.TerrainChunkComponent); ok {
		if ts.bodies != nil {
			ts.bodies.DetachChunk(e, chunk)
		}
		w.Events().Publish(ecs.Event{Kind: ecs.EventChunkEvicted, Entity: e, Value: chunk.Index})
	}
	ecs.DestroyEntity(w, e)
	for i, c := range stream.Chunks {
		if c == id {
			stream.Chunks = append(stream.Chunks[:i], stream.Chunks[i+1:]...)
			break
		}
	}
}

// placeItems rolls for one pill and one obstacle on interior samples.
func (ts *TerrainSystem) placeItems(w *ecs.World, e ecs.Entity, chunk *component.TerrainChunk) {
	interior := len(chunk.Samples) - 2
	if interior < 1 {
		return
	}
	spec := ts.builder.Spec
	rng := ts.builder.Rand

	pillAt := -1
	if rng.Float64() < spec.Pill.Chance {
		pillAt = 1 + rng.IntN(interior)
		if _, err := entity.NewPill(w, e, pillAt, chunk.Samples[pillAt], spec.Pill); err != nil {
			log.Printf("TerrainSystem: %v", err)
		}
	}
	if rng.Float64() < spec.Obstacle.Chance {
		at := 1 + rng.IntN(interior)
		if at == pillAt {
			return
		}
		if _, err := entity.NewObstacle(w, e, at, chunk.Samples[at], chunk.AngleAt(at), spec.Obstacle); err != nil {
			log.Printf("TerrainSystem: %v", err)
		}
	}
}

func (ts *TerrainSystem) subscribe(w *ecs.World) {
	if ts.subscribed {
		return
	}
	ts.subscribed = true
	w.Events().Subscribe(ecs.EventResetPlayer, func(ecs.Event) {
		if err := ts.Reset(w); err != nil {
			log.Printf("TerrainSystem: reset: %v", err)
		}
	})
}
