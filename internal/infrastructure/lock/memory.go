package lock

import (
	"sync"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
)

type entry struct {
	mu      sync.Mutex
	holders int
}

// MemoryLocker is an in-process DocumentLocker keyed by commission id.
// For multi-instance deployment the repository's version check still
// rejects stale writes with a conflict.
type MemoryLocker struct {
	mu   sync.Mutex
	data map[string]*entry
}

// NewMemoryLocker returns an empty locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{data: make(map[string]*entry)}
}

// Lock blocks until key is free. The returned func must be called once.
func (l *MemoryLocker) Lock(key string) func() {
	l.mu.Lock()
	e := l.data[key]
	if e == nil {
		e = &entry{}
		l.data[key] = e
	}
	e.holders++
	l.mu.Unlock()

	e.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			l.mu.Lock()
			e.holders--
			if e.holders == 0 {
				delete(l.data, key)
			}
			l.mu.Unlock()
		})
	}
}

// Len reports how many keys are held or awaited.
func (l *MemoryLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.data)
}

var _ ports.DocumentLocker = (*MemoryLocker)(nil)
