package editor

import "sync"

// Subscription is a registered listener. Close unregisters it; it is safe to
// call more than once.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Close removes the listener.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

type listener[T any] struct {
	id int
	fn func(T)
}

type listeners[T any] struct {
	mu     sync.Mutex
	nextID int
	items  []listener[T]
}

func (l *listeners[T]) add(fn func(T)) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.items = append(l.items, listener[T]{id: id, fn: fn})

	return &Subscription{cancel: func() { l.remove(id) }}
}

func (l *listeners[T]) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.items {
		if item.id == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) emit(value T) {
	l.mu.Lock()
	snapshot := make([]listener[T], len(l.items))
	copy(snapshot, l.items)
	l.mu.Unlock()

	for _, item := range snapshot {
		item.fn(value)
	}
}
