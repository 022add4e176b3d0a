package ecs

import "github.com/milk9111/downhill/ecs/component"

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func Entities(w *World) []Entity {
	return w.Entities()
}

// Add stores value for e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value *T) error {
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	if value == nil {
		return component.ErrNilComponent
	}
	kind := handle.Kind()
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	s := storeFor(w, kind, true)
	if s == nil {
		return component.ErrInvalidComponentKind
	}
	s.set(e.id(), value)
	return nil
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	s := storeFor(w, handle.Kind(), false)
	if s == nil {
		return nil, false
	}
	return s.get(e.id())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.HasComponent(e, handle.Kind())
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, handle.Kind())
}

// First returns the lowest-slot entity holding handle and its value.
func First[T any](w *World, handle component.ComponentHandle[T]) (Entity, *T, bool) {
	e, ok := w.First(handle.Kind())
	if !ok {
		return 0, nil, false
	}
	v, ok := Get(w, e, handle)
	return e, v, ok
}

// ForEach visits every entity holding a. Iteration runs over a snapshot, so fn
// may create or destroy entities; entities destroyed mid-iteration are skipped.
func ForEach[A any](w *World, a component.ComponentHandle[A], fn func(Entity, *A)) {
	for _, e := range w.Query(a.Kind()) {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		fn(e, va)
	}
}

func ForEach2[A, B any](w *World, a component.ComponentHandle[A], b component.ComponentHandle[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(a.Kind(), b.Kind()) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		if !okA || !okB {
			continue
		}
		fn(e, va, vb)
	}
}

func ForEach3[A, B, C any](w *World, a component.ComponentHandle[A], b component.ComponentHandle[B], c component.ComponentHandle[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(a.Kind(), b.Kind(), c.Kind()) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		vc, okC := Get(w, e, c)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, va, vb, vc)
	}
}

func ForEach4[A, B, C, D any](w *World, a component.ComponentHandle[A], b component.ComponentHandle[B], c component.ComponentHandle[C], d component.ComponentHandle[D], fn func(Entity, *A, *B, *C, *D)) {
	for _, e := range w.Query(a.Kind(), b.Kind(), c.Kind(), d.Kind()) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		vc, okC := Get(w, e, c)
		vd, okD := Get(w, e, d)
		if !okA || !okB || !okC || !okD {
			continue
		}
		fn(e, va, vb, vc, vd)
	}
}
