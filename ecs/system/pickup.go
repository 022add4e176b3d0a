package system

import (
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

// ItemSystem resolves the player's item contacts from the last physics step:
// touched pills are collected and removed, touched obstacles are flagged.
type ItemSystem struct{}

func NewItemSystem() *ItemSystem { return &ItemSystem{} }

func (s *ItemSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if _, gs, ok := ecs.First(w, component.GameStateComponent); ok && gs.State != component.StatePlaying {
		return
	}

	ecs.ForEach2(w, component.PlayerContactComponent, component.PlayerComponent, func(player ecs.Entity, contact *component.PlayerContact, p *component.Player) {
		if p.Dead {
			return
		}
		for _, id := range contact.Pills {
			e := ecs.Entity(id)
			pill, ok := ecs.Get(w, e, component.PillComponent)
			if !ok || pill.Collected {
				continue
			}
			pill.Collected = true
			w.Events().Publish(ecs.Event{Kind: ecs.EventPillCollected, Entity: player})
			ecs.DestroyEntity(w, e)
		}
		for _, id := range contact.Obstacles {
			if obstacle, ok := ecs.Get(w, ecs.Entity(id), component.ObstacleComponent); ok {
				obstacle.Hit = true
			}
		}
	})
}
