package session

import (
	"fmt"
	"log"

	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/ecs/entity"
	"github.com/milk9111/downhill/ecs/system"
	"github.com/milk9111/downhill/prefabs"
	"github.com/milk9111/downhill/save"
)

// DefaultRestartDelay is how many steps a finished run ignores restart input.
const DefaultRestartDelay = 30

type Options struct {
	Seed         uint64
	Aspect       float64
	Portrait     bool
	RestartDelay int
	// Records keeps the best run. Nil keeps it for this session only.
	Records system.RecordKeeper
}

// Session is one running slope: the world, its systems and the entities
// the views read. Both frontends drive it one fixed step at a time.
type Session struct {
	Config  *prefabs.Config
	World   *ecs.World
	Physics *system.PhysicsSystem
	Terrain *system.TerrainSystem

	scheduler *ecs.Scheduler
	player    ecs.Entity
	camera    ecs.Entity
	frames    int
}

func New(cfg *prefabs.Config, opts Options) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("session: nil config")
	}
	if opts.Aspect <= 0 {
		opts.Aspect = 16.0 / 9
	}
	if opts.RestartDelay <= 0 {
		opts.RestartDelay = DefaultRestartDelay
	}

	w := ecs.NewWorld()
	s := &Session{Config: cfg, World: w}

	var err error
	if s.player, err = entity.NewPlayer(w, cfg.Player); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if _, err = entity.NewTerrainStream(w, cfg.Terrain); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if s.camera, err = entity.NewCamera(w, cfg.Camera, opts.Aspect, opts.Portrait, cfg.Player.Spawn.X, cfg.Player.Spawn.Y); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if _, err = entity.NewGameState(w, opts.RestartDelay); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	best := save.Record{}
	if opts.Records != nil {
		best = opts.Records.Best()
	}
	if _, err = entity.NewScore(w, best.Distance, best.Pills); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s.Physics = system.NewPhysicsSystem(cfg.World)
	s.Terrain = system.NewTerrainSystem(entity.NewChunkBuilder(cfg.Terrain, opts.Seed), s.Physics)
	if err := s.Terrain.Initialize(w); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s.scheduler = ecs.NewScheduler(
		system.NewGameFlowSystem(),
		s.Physics,
		system.NewPlayerControllerSystem(s.Physics),
		system.NewItemSystem(),
		system.NewCameraSystem(s.Physics, cfg.World.Timestep),
		s.Terrain,
		system.NewCullSystem(),
		system.NewScoreSystem(opts.Records),
	)

	log.Printf("Session: seed %d, %d chunks, %s", opts.Seed, cfg.Terrain.InitialChunks, component.OrientationFor(opts.Aspect))
	return s, nil
}

// Step advances one fixed timestep with the given frame of input.
func (s *Session) Step(in component.Input) {
	system.ApplyInput(s.World, in)
	s.scheduler.Update(s.World)
	system.ClearInput(s.World)
	s.frames++
}

func (s *Session) Frames() int { return s.frames }

func (s *Session) Timestep() float64 { return s.Physics.Timestep() }

// SetAspect updates the viewport aspect; the camera switches presets when
// the orientation flips.
func (s *Session) SetAspect(aspect float64) {
	if aspect <= 0 {
		return
	}
	if cam, ok := ecs.Get(s.World, s.camera, component.CameraComponent); ok {
		cam.Aspect = aspect
	}
}

func (s *Session) Camera() (*component.Camera, bool) {
	return ecs.Get(s.World, s.camera, component.CameraComponent)
}

func (s *Session) Player() (*component.Player, *component.Transform, bool) {
	p, ok := ecs.Get(s.World, s.player, component.PlayerComponent)
	if !ok {
		return nil, nil, false
	}
	t, ok := ecs.Get(s.World, s.player, component.TransformComponent)
	return p, t, ok
}

func (s *Session) PlayerState() string {
	sm, ok := ecs.Get(s.World, s.player, component.PlayerStateMachineComponent)
	if !ok || sm.State == nil {
		return "none"
	}
	return sm.State.Name()
}

func (s *Session) State() component.GameStateKind {
	_, gs, ok := ecs.First(s.World, component.GameStateComponent)
	if !ok {
		return component.StateStart
	}
	return gs.State
}

func (s *Session) Score() component.Score {
	_, score, ok := ecs.First(s.World, component.ScoreComponent)
	if !ok {
		return component.Score{}
	}
	return *score
}

// Chunks returns the live chunks, oldest first.
func (s *Session) Chunks() []*component.TerrainChunk {
	_, stream, ok := ecs.First(s.World, component.TerrainStreamComponent)
	if !ok {
		return nil
	}
	out := make([]*component.TerrainChunk, 0, len(stream.Chunks))
	for _, id := range stream.Chunks {
		if c, ok := ecs.Get(s.World, ecs.Entity(id), component.TerrainChunkComponent); ok {
			out = append(out, c)
		}
	}
	return out
}
