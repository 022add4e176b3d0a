package ecs

import (
	"slices"

	"github.com/milk9111/downhill/ecs/component"
)

// Query returns the live entities holding every kind, ordered by slot.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]store, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok || s.len() == 0 {
			return nil
		}
		stores = append(stores, s)
	}
	slices.SortFunc(stores, func(a, b store) int { return a.len() - b.len() })

	var out []Entity
outer:
	for _, id := range stores[0].ids() {
		for _, s := range stores[1:] {
			if !s.has(id) {
				continue outer
			}
		}
		out = append(out, makeEntity(id, w.gens[id]))
	}
	slices.SortFunc(out, func(a, b Entity) int { return int(a.id()) - int(b.id()) })
	return out
}

// First returns the lowest-slot live entity holding every kind.
func (w *World) First(kinds ...component.Kind) (Entity, bool) {
	ents := w.Query(kinds...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
