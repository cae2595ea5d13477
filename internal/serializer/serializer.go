package serializer

import "sync"

// waiter is a queued caller; its channel is closed when the key is handed to it
type waiter chan struct{}

// queue tracks the holder of one key and the callers lined up behind it
type queue struct {
	waiters []waiter
}

// Serializer provides per-key mutual exclusion with FIFO hand-off.
// Calls for different keys never block each other. A key's record is
// dropped as soon as its queue drains.
type Serializer struct {
	mu     sync.Mutex
	queues map[string]*queue
}

// New creates an empty Serializer
func New() *Serializer {
	return &Serializer{queues: make(map[string]*queue)}
}

// WithLock runs fn while holding key. Callers for the same key run in arrival order.
// The key is released even if fn returns an error or panics.
func (s *Serializer) WithLock(key string, fn func() error) error {
	s.acquire(key)
	defer s.release(key)
	return fn()
}

// Pending returns the number of keys currently held
func (s *Serializer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queues)
}

func (s *Serializer) acquire(key string) {
	s.mu.Lock()
	q, held := s.queues[key]
	if !held {
		s.queues[key] = &queue{}
		s.mu.Unlock()
		return
	}
	w := make(waiter)
	q.waiters = append(q.waiters, w)
	s.mu.Unlock()
	<-w
}

func (s *Serializer) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[key]
	if q == nil {
		return
	}
	if len(q.waiters) == 0 {
		delete(s.queues, key)
		return
	}
	next := q.waiters[0]
	q.waiters[0] = nil
	q.waiters = q.waiters[1:]
	close(next)
}
