package schedule

import "sync"

// resourceLocks hands out one mutex per resource id so bookings on
// different resources never wait on each other. Locks are created lazily
// and kept for the life of the process; the per-resource footprint is a
// single mutex.
type resourceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newResourceLocks() *resourceLocks {
	return &resourceLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *resourceLocks) forResource(resourceID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[resourceID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[resourceID] = m
	}
	return m
}
