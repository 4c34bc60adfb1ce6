package keylock

import "sync"

type entry struct {
	mu       sync.Mutex
	refCount int
}

// Locker hands out one mutex per key. Entries are dropped once nobody holds
// or waits on them, so the map only grows with the keys in flight.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock blocks until key is free and returns the matching unlock func
func (l *Locker) Lock(key string) func() {
	l.mu.Lock()
	e, exists := l.locks[key]
	if !exists {
		e = &entry{}
		l.locks[key] = e
	}
	e.refCount++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refCount--
		if e.refCount == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len reports how many keys are currently locked or waited on
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
