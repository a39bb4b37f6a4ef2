package ecs

// Store is a generic typed map store keyed by any comparable id.
// Not safe for concurrent use; owned by the tick goroutine.
type Store[K comparable, V any] struct {
	data map[K]V
}

func NewStore[K comparable, V any](hint int) *Store[K, V] {
	return &Store[K, V]{
		data: make(map[K]V, hint),
	}
}

func (s *Store[K, V]) Set(id K, v V) {
	s.data[id] = v
}

func (s *Store[K, V]) Get(id K) (V, bool) {
	v, ok := s.data[id]
	return v, ok
}

func (s *Store[K, V]) Remove(id K) {
	delete(s.data, id)
}

func (s *Store[K, V]) Has(id K) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[K, V]) Len() int {
	return len(s.data)
}

func (s *Store[K, V]) Each(fn func(K, V)) {
	for id, v := range s.data {
		fn(id, v)
	}
}

// Clear drops every entry but keeps the allocated map.
func (s *Store[K, V]) Clear() {
	clear(s.data)
}
