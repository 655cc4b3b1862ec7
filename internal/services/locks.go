package services

import (
	"sync"

	"github.com/google/uuid"
)

// activityLocks serializes scheduling and rollup passes per activity so two
// concurrent edits of the same item set cannot interleave their
// read-modify-write cycles. Different activities proceed independently.
type activityLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newActivityLocks() *activityLocks {
	return &activityLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// acquire blocks until the activity's lock is held and returns the unlock.
func (l *activityLocks) acquire(activityID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[activityID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[activityID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
