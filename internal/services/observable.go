package services

import "sync"

// Observable is a current-value holder: it always has a value, and
// subscribers receive the value at subscription time plus every later update.
// Updates use non-blocking sends, so a subscriber that stops draining its
// channel misses intermediate values rather than blocking the writer.
type Observable[T any] struct {
	mu    sync.RWMutex
	value T
	subs  []chan T
}

// NewObservable creates a holder seeded with an initial value.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Set stores a new value and notifies subscribers.
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	o.value = value
	subs := make([]chan T, len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- value:
		default:
		}
	}
}

// Subscribe returns a buffered channel primed with the current value.
func (o *Observable[T]) Subscribe() <-chan T {
	o.mu.Lock()
	defer o.mu.Unlock()
	sub := make(chan T, 8)
	sub <- o.value
	o.subs = append(o.subs, sub)
	return sub
}
