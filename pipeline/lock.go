package pipeline

import "sync"

// collectionLocks serializes index builds per collection so that two
// concurrent runs against the same domain don't both build the index.
type collectionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCollectionLocks() *collectionLocks {
	return &collectionLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the named collection and returns the unlock function.
func (c *collectionLocks) acquire(name string) func() {
	c.mu.Lock()
	l, ok := c.locks[name]
	if !ok {
		l = &sync.Mutex{}
		c.locks[name] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
