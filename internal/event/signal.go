// Package event provides typed, synchronous signals for wiring windows and
// managers together.
package event

import "sync"

// Connection identifies a handler connected to a Signal.
type Connection uint64

type slot[T any] struct {
	id Connection
	fn func(T)
}

// Signal is a list of handlers invoked synchronously, in connection order,
// whenever a value is emitted. The zero value is ready to use.
type Signal[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	next  Connection
}

// Connect registers a handler and returns its connection handle.
func (s *Signal[T]) Connect(fn func(T)) Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.slots = append(s.slots, slot[T]{id: s.next, fn: fn})
	return s.next
}

// Disconnect removes a handler. Returns false if it was not connected.
func (s *Signal[T]) Disconnect(c Connection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sl := range s.slots {
		if sl.id == c {
			s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Emit invokes every connected handler with v before returning.
// A handler disconnected by an earlier handler of the same emission is skipped.
func (s *Signal[T]) Emit(v T) {
	s.mu.RLock()
	slots := make([]slot[T], len(s.slots))
	copy(slots, s.slots)
	s.mu.RUnlock()

	for _, sl := range slots {
		if !s.connected(sl.id) {
			continue
		}
		sl.fn(v)
	}
}

// Len returns the number of connected handlers.
func (s *Signal[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

func (s *Signal[T]) connected(c Connection) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sl := range s.slots {
		if sl.id == c {
			return true
		}
	}
	return false
}
