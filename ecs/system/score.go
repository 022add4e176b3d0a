package system

import (
	"log"
	"math"

	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/save"
)

// RecordKeeper holds the best run. *save.Store implements it.
type RecordKeeper interface {
	Best() save.Record
	Submit(save.Record) (bool, error)
}

// ScoreSystem measures the current run and submits it when the run fails.
type ScoreSystem struct {
	records    RecordKeeper
	subscribed bool
}

func NewScoreSystem(records RecordKeeper) *ScoreSystem {
	return &ScoreSystem{records: records}
}

func (s *ScoreSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.subscribe(w)

	_, score, ok := ecs.First(w, component.ScoreComponent)
	if !ok {
		return
	}
	if _, gs, ok := ecs.First(w, component.GameStateComponent); ok && gs.State != component.StatePlaying {
		return
	}
	e, player, ok := firstPlayer(w)
	if !ok || player.Dead {
		return
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
		score.Distance = math.Max(score.Distance, t.X-player.SpawnX)
	}
}

func (s *ScoreSystem) subscribe(w *ecs.World) {
	if s.subscribed {
		return
	}
	s.subscribed = true
	bus := w.Events()

	bus.Subscribe(ecs.EventPillCollected, func(ecs.Event) {
		if _, score, ok := ecs.First(w, component.ScoreComponent); ok {
			score.Pills++
		}
	})
	bus.Subscribe(ecs.EventFail, func(ecs.Event) {
		_, score, ok := ecs.First(w, component.ScoreComponent)
		if !ok {
			return
		}
		run := save.Record{Distance: score.Distance, Pills: score.Pills}
		if s.records == nil {
			score.NewBest = run.Beats(save.Record{Distance: score.BestDistance, Pills: score.BestPills})
		} else {
			better, err := s.records.Submit(run)
			if err != nil {
				log.Printf("ScoreSystem: %v", err)
			}
			score.NewBest = better
		}
		if score.NewBest {
			score.BestDistance = run.Distance
			score.BestPills = run.Pills
		}
	})
	bus.Subscribe(ecs.EventResetPlayer, func(ecs.Event) {
		if _, score, ok := ecs.First(w, component.ScoreComponent); ok {
			score.Distance = 0
			score.Pills = 0
			score.NewBest = false
		}
	})
}

func firstPlayer(w *ecs.World) (ecs.Entity, *component.Player, bool) {
	return ecs.First(w, component.PlayerComponent)
}
