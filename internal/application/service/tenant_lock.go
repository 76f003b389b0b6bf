package service

import "sync"

// tenantLocks serializes work per tenant. Entries are dropped once no caller holds or waits on them.
type tenantLocks struct {
	mu    sync.Mutex
	locks map[string]*tenantLock
}

type tenantLock struct {
	mu   sync.Mutex
	refs int
}

func newTenantLocks() *tenantLocks {
	return &tenantLocks{locks: make(map[string]*tenantLock)}
}

// Lock blocks until the tenant's lock is held and returns the matching unlock func.
func (t *tenantLocks) Lock(tenantID string) func() {
	t.mu.Lock()
	l, ok := t.locks[tenantID]
	if !ok {
		l = &tenantLock{}
		t.locks[tenantID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, tenantID)
		}
		t.mu.Unlock()
	}
}

func (t *tenantLocks) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
