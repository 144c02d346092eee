package state

import "sync"

// Signal holds a value that changes over time and notifies subscribers on
// every change. Subscriptions are scoped: the returned func removes the
// listener and is safe to call more than once.
type Signal[T comparable] struct {
	mu        sync.RWMutex
	value     T
	nextID    int
	listeners map[int]func(T)
}

func NewSignal[T comparable](initial T) *Signal[T] {
	return &Signal[T]{value: initial, listeners: map[int]func(T){}}
}

func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and notifies listeners when it differs from the current one.
// Listeners run synchronously on the caller's goroutine.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	if s.value == value {
		s.mu.Unlock()
		return
	}
	s.value = value
	listeners := make([]func(T), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
}

// Subscribe registers fn for future changes.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Listeners is the number of live subscriptions.
func (s *Signal[T]) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}
