package usecase

import "sync"

// roomLocks hands out one mutex per room so every load-mutate-save runs
// serialized. Locks are never evicted; a stale entry is a few bytes.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *roomLocks) get(roomID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.locks[roomID]; ok {
		return m
	}
	m := &sync.Mutex{}
	l.locks[roomID] = m
	return m
}
