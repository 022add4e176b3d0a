package entity

import (
	"fmt"

	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

// NewGameState creates the run state singleton. restartDelay is the number
// of steps a completed run ignores restart input.
func NewGameState(w *ecs.World, restartDelay int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.GameStateComponent, &component.GameState{
		State:        component.StateStart,
		RestartDelay: restartDelay,
	}); err != nil {
		return 0, fmt.Errorf("game state: %w", err)
	}
	return e, nil
}

func NewScore(w *ecs.World, bestDistance float64, bestPills int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ScoreComponent, &component.Score{
		BestDistance: bestDistance,
		BestPills:    bestPills,
	}); err != nil {
		return 0, fmt.Errorf("score: %w", err)
	}
	return e, nil
}
