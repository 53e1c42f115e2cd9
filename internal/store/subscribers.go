package store

import (
	"sync"
)

type subscription[T any] struct {
	id int
	fn func(T)
}

// subscribers is a registry of change listeners. Listeners are called in
// registration order, outside of any store lock.
type subscribers[T any] struct {
	mu     sync.Mutex
	nextID int
	list   []subscription[T]
}

func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.list = append(s.list, subscription[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.list {
		if sub.id == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			return
		}
	}
}

func (s *subscribers[T]) notify(v T) {
	s.mu.Lock()
	list := append([]subscription[T](nil), s.list...)
	s.mu.Unlock()

	for _, sub := range list {
		sub.fn(v)
	}
}

func (s *subscribers[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}
