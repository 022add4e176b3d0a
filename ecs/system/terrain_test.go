package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/ecs/entity"
	"github.com/milk9111/downhill/prefabs"
)

func testTerrainSpec() prefabs.TerrainSpec {
	return prefabs.TerrainSpec{
		InitialChunks: 4,
		Anchor:        prefabs.Vec2Spec{X: -12, Y: 3},
		ControlPoints: 5,
		SegmentLength: prefabs.RangeSpec{Min: 8, Max: 14},
		SegmentAngle:  prefabs.RangeSpec{Min: -28, Max: -8},
		Subdivisions:  16,
		Noise:         prefabs.NoiseSpec{Amplitude: 0.35, Frequency: 0.18},
		Thickness:     2,
	}
}

type fakeChunkBodies struct {
	live     map[ecs.Entity]bool
	attached int
	detached int
}

func newFakeChunkBodies() *fakeChunkBodies {
	return &fakeChunkBodies{live: make(map[ecs.Entity]bool)}
}

func (f *fakeChunkBodies) AttachChunk(e ecs.Entity, chunk *component.TerrainChunk) {
	f.live[e] = true
	f.attached++
	chunk.Attached = true
}

func (f *fakeChunkBodies) DetachChunk(e ecs.Entity, chunk *component.TerrainChunk) {
	delete(f.live, e)
	f.detached++
	chunk.Attached = false
}

func newStreamWorld(t *testing.T, spec prefabs.TerrainSpec) (*ecs.World, *TerrainSystem, *fakeChunkBodies) {
	t.Helper()
	w := ecs.NewWorld()
	if _, err := entity.NewTerrainStream(w, spec); err != nil {
		t.Fatalf("stream: %v", err)
	}
	bodies := newFakeChunkBodies()
	ts := NewTerrainSystem(entity.NewChunkBuilder(spec, 7), bodies)
	if err := ts.Initialize(w); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	// deliver the initial spawn events so tests count only their own
	w.Events().Dispatch()
	return w, ts, bodies
}

func streamChunks(t *testing.T, w *ecs.World) []*component.TerrainChunk {
	t.Helper()
	_, stream, ok := ecs.First(w, component.TerrainStreamComponent)
	if !ok {
		t.Fatal("no stream")
	}
	chunks := make([]*component.TerrainChunk, 0, len(stream.Chunks))
	for _, id := range stream.Chunks {
		c, ok := ecs.Get(w, ecs.Entity(id), component.TerrainChunkComponent)
		if !ok {
			t.Fatalf("stream holds dead chunk %v", ecs.Entity(id))
		}
		chunks = append(chunks, c)
	}
	return chunks
}

func assertChained(t *testing.T, chunks []*component.TerrainChunk) {
	t.Helper()
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Start() != chunks[i-1].End() {
			t.Fatalf("chunk %d starts at %v, previous ends at %v", chunks[i].Index, chunks[i].Start(), chunks[i-1].End())
		}
		if chunks[i].Index != chunks[i-1].Index+1 {
			t.Fatalf("chunk indices %d then %d", chunks[i-1].Index, chunks[i].Index)
		}
	}
}

func TestStreamInitialize(t *testing.T) {
	spec := testTerrainSpec()
	w, _, bodies := newStreamWorld(t, spec)

	chunks := streamChunks(t, w)
	if len(chunks) != spec.InitialChunks {
		t.Fatalf("chunks = %d, want %d", len(chunks), spec.InitialChunks)
	}
	if got := chunks[0].Start(); got != (cp.Vector{X: -12, Y: 3}) {
		t.Fatalf("first chunk starts at %v, want anchor", got)
	}
	assertChained(t, chunks)
	if len(bodies.live) != spec.InitialChunks {
		t.Fatalf("attached chunks = %d", len(bodies.live))
	}
}

func TestStreamEvictionKeepsCountAndChain(t *testing.T) {
	spec := testTerrainSpec()
	w, ts, bodies := newStreamWorld(t, spec)

	var spawned, evicted int
	w.Events().Subscribe(ecs.EventChunkSpawned, func(ecs.Event) { spawned++ })
	w.Events().Subscribe(ecs.EventChunkEvicted, func(ecs.Event) { evicted++ })

	total := 0
	for left := -12.0; left < 400; left += 3 {
		n, err := ts.Evict(w, left)
		if err != nil {
			t.Fatalf("evict at %v: %v", left, err)
		}
		total += n

		chunks := streamChunks(t, w)
		if len(chunks) != spec.InitialChunks {
			t.Fatalf("left %v: chunks = %d, want %d", left, len(chunks), spec.InitialChunks)
		}
		assertChained(t, chunks)
		for _, c := range chunks {
			if c.Bounds.MaxX < left {
				t.Fatalf("left %v: chunk %d still behind the view", left, c.Index)
			}
		}
		if len(bodies.live) != spec.InitialChunks {
			t.Fatalf("left %v: attached chunks = %d", left, len(bodies.live))
		}
	}
	w.Events().Dispatch()

	if total == 0 {
		t.Fatal("sweep never evicted a chunk")
	}
	if evicted != total || spawned != total {
		t.Fatalf("events: evicted %d spawned %d, want %d", evicted, spawned, total)
	}
	if bodies.attached-bodies.detached != spec.InitialChunks {
		t.Fatalf("attach %d detach %d", bodies.attached, bodies.detached)
	}
}

func TestStreamInitialEventsNotCounted(t *testing.T) {
	spec := testTerrainSpec()
	w, ts, _ := newStreamWorld(t, spec)

	spawned := 0
	w.Events().Subscribe(ecs.EventChunkSpawned, func(ecs.Event) { spawned++ })
	n, err := ts.Evict(w, streamChunks(t, w)[0].Bounds.MaxX+0.001)
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	w.Events().Dispatch()
	if spawned != n {
		t.Fatalf("spawned events = %d, want %d", spawned, n)
	}
}

func TestStreamUpdateTopsUpShortfall(t *testing.T) {
	spec := testTerrainSpec()
	w, ts, bodies := newStreamWorld(t, spec)

	// a stream left short, as after two replacements failed to build
	_, stream, _ := ecs.First(w, component.TerrainStreamComponent)
	ts.remove(w, stream, stream.Chunks[len(stream.Chunks)-1])
	ts.remove(w, stream, stream.Chunks[len(stream.Chunks)-1])
	stream.Spawned -= 2
	if got := len(streamChunks(t, w)); got != spec.InitialChunks-2 {
		t.Fatalf("chunks = %d before update", got)
	}

	ts.Update(w)

	chunks := streamChunks(t, w)
	if len(chunks) != spec.InitialChunks {
		t.Fatalf("chunks = %d after update, want %d", len(chunks), spec.InitialChunks)
	}
	if len(bodies.live) != spec.InitialChunks {
		t.Fatalf("attached chunks = %d", len(bodies.live))
	}
	assertChained(t, chunks)
}

func TestStreamEvictsSeveralAtOnce(t *testing.T) {
	spec := testTerrainSpec()
	w, ts, _ := newStreamWorld(t, spec)

	before := streamChunks(t, w)
	left := before[2].Bounds.MaxX + 0.001
	newestEnd := before[len(before)-1].End()

	n, err := ts.Evict(w, left)
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if n < 3 {
		t.Fatalf("evicted %d, want at least 3", n)
	}

	after := streamChunks(t, w)
	if len(after) != spec.InitialChunks {
		t.Fatalf("chunks = %d", len(after))
	}
	assertChained(t, after)
	// the first replacement continues from the old newest chunk
	if got := after[len(after)-n].Start(); got != newestEnd {
		t.Fatalf("replacement starts at %v, want %v", got, newestEnd)
	}
}

func TestStreamResetRebuildsFromAnchor(t *testing.T) {
	spec := testTerrainSpec()
	spec.ItemsFromChunk = 0
	spec.Pill = prefabs.PillSpec{Chance: 1, Hover: 1, Radius: 0.4}
	spec.Obstacle = prefabs.ObstacleSpec{Chance: 1, Width: 0.8, Height: 1.2}
	w, ts, bodies := newStreamWorld(t, spec)

	if _, err := ts.Evict(w, streamChunks(t, w)[1].Bounds.MaxX+0.001); err != nil {
		t.Fatalf("evict: %v", err)
	}
	if len(w.Query(component.PillComponent.Kind())) == 0 {
		t.Fatal("expected pills with chance 1")
	}

	ts.Update(w) // subscribes to reset
	w.Events().Publish(ecs.Event{Kind: ecs.EventResetPlayer})
	w.Events().Dispatch()

	chunks := streamChunks(t, w)
	if len(chunks) != spec.InitialChunks {
		t.Fatalf("chunks = %d", len(chunks))
	}
	if chunks[0].Index != 0 || chunks[0].Start() != (cp.Vector{X: -12, Y: 3}) {
		t.Fatalf("first chunk %d at %v", chunks[0].Index, chunks[0].Start())
	}
	assertChained(t, chunks)
	if len(bodies.live) != spec.InitialChunks {
		t.Fatalf("attached chunks = %d", len(bodies.live))
	}

	// every surviving item belongs to a rebuilt chunk
	live := make(map[uint64]bool)
	_, stream, _ := ecs.First(w, component.TerrainStreamComponent)
	for _, id := range stream.Chunks {
		live[id] = true
	}
	ecs.ForEach(w, component.ChunkItemComponent, func(e ecs.Entity, item *component.ChunkItem) {
		if !live[item.Chunk] {
			t.Fatalf("item %v survived reset on chunk %v", e, ecs.Entity(item.Chunk))
		}
	})
}

func TestItemsStayOffEarlyChunks(t *testing.T) {
	spec := testTerrainSpec()
	spec.ItemsFromChunk = 2
	spec.Pill = prefabs.PillSpec{Chance: 1, Hover: 1, Radius: 0.4}
	w, _, _ := newStreamWorld(t, spec)

	chunks := streamChunks(t, w)
	_, stream, _ := ecs.First(w, component.TerrainStreamComponent)
	index := make(map[uint64]int)
	for i, id := range stream.Chunks {
		index[id] = chunks[i].Index
	}

	pills := 0
	ecs.ForEach(w, component.ChunkItemComponent, func(_ ecs.Entity, item *component.ChunkItem) {
		pills++
		if index[item.Chunk] < 2 {
			t.Fatalf("item placed on chunk %d", index[item.Chunk])
		}
	})
	if pills != spec.InitialChunks-2 {
		t.Fatalf("pills = %d, want %d", pills, spec.InitialChunks-2)
	}
}
