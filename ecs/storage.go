package ecs

// store is the type-erased view of a component column.
type store interface {
	has(id entityID) bool
	remove(id entityID) bool
	ids() []entityID
	len() int
}

// sparseStore keeps components densely packed with a sparse index by slot id.
type sparseStore[T any] struct {
	sparse []int32 // slot id -> dense index + 1, 0 means absent
	dense  []entityID
	values []*T
}

func newSparseStore[T any]() *sparseStore[T] {
	return &sparseStore[T]{}
}

func (s *sparseStore[T]) has(id entityID) bool {
	return int(id) < len(s.sparse) && s.sparse[id] != 0
}

func (s *sparseStore[T]) get(id entityID) (*T, bool) {
	if !s.has(id) {
		return nil, false
	}
	return s.values[s.sparse[id]-1], true
}

func (s *sparseStore[T]) set(id entityID, v *T) {
	if int(id) >= len(s.sparse) {
		grown := make([]int32, int(id)+1, max(int(id)+1, 2*len(s.sparse)))
		copy(grown, s.sparse)
		s.sparse = grown[:cap(grown)]
	}
	if idx := s.sparse[id]; idx != 0 {
		s.values[idx-1] = v
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[id] = int32(len(s.dense))
}

func (s *sparseStore[T]) remove(id entityID) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id] - 1
	last := int32(len(s.dense) - 1)
	lastID := s.dense[last]

	s.dense[idx] = lastID
	s.values[idx] = s.values[last]
	s.sparse[lastID] = idx + 1

	s.values[last] = nil
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id] = 0
	return true
}

func (s *sparseStore[T]) ids() []entityID {
	return s.dense
}

func (s *sparseStore[T]) len() int {
	return len(s.dense)
}
