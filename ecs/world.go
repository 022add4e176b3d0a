package ecs

import "github.com/milk9111/downhill/ecs/component"

// World owns entities, their components and the frame event bus.
type World struct {
	gens   []generation // indexed by slot id, slot 0 unused
	alive  []bool
	free   []entityID
	count  int
	stores map[component.ComponentID]store
	events *EventBus
}

func NewWorld() *World {
	return &World{
		gens:   make([]generation, 1),
		alive:  make([]bool, 1),
		stores: make(map[component.ComponentID]store),
		events: NewEventBus(),
	}
}

func (w *World) CreateEntity() Entity {
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		id = entityID(len(w.gens))
		w.gens = append(w.gens, 0)
		w.alive = append(w.alive, false)
	}
	w.alive[id] = true
	w.count++
	return makeEntity(id, w.gens[id])
}

// DestroyEntity drops every component of e and recycles its slot. It
// reports false when e was already dead.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	id := e.id()
	for _, s := range w.stores {
		s.remove(id)
	}
	w.alive[id] = false
	w.gens[id]++
	w.free = append(w.free, id)
	w.count--
	return true
}

func (w *World) IsAlive(e Entity) bool {
	if w == nil || !e.Valid() {
		return false
	}
	id := e.id()
	return int(id) < len(w.gens) && w.alive[id] && w.gens[id] == e.generation()
}

func (w *World) Len() int {
	return w.count
}

func (w *World) Events() *EventBus {
	if w == nil {
		return nil
	}
	return w.events
}

// Entities returns all live entities ordered by slot.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, w.count)
	for id := 1; id < len(w.gens); id++ {
		if w.alive[id] {
			out = append(out, makeEntity(entityID(id), w.gens[id]))
		}
	}
	return out
}

func (w *World) HasComponent(e Entity, kind component.Kind) bool {
	if !w.IsAlive(e) {
		return false
	}
	s, ok := w.stores[kind.ID()]
	return ok && s.has(e.id())
}

func (w *World) RemoveComponent(e Entity, kind component.Kind) bool {
	if !w.IsAlive(e) {
		return false
	}
	s, ok := w.stores[kind.ID()]
	return ok && s.remove(e.id())
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseStore[T] {
	s, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil
		}
		typed := newSparseStore[T]()
		w.stores[kind.ID()] = typed
		return typed
	}
	typed, ok := s.(*sparseStore[T])
	if !ok {
		return nil
	}
	return typed
}
