package eventbus

import "sync"

// Spawner schedules background work for deferred handlers. The bus depends
// on this interface rather than discovering a runtime, so "no scheduling
// context available" is an explicit, testable condition.
type Spawner interface {
	// Spawn runs fn in the background and reports whether the work was
	// accepted. Work is refused after shutdown.
	Spawn(fn func()) bool
}

// GoroutineSpawner runs work on goroutines and tracks them so Close can
// drain in-flight handlers.
type GoroutineSpawner struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// NewGoroutineSpawner creates a spawner that accepts work until Close.
func NewGoroutineSpawner() *GoroutineSpawner {
	return &GoroutineSpawner{}
}

func (s *GoroutineSpawner) Spawn(fn func()) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn()
	}()
	return true
}

// Close stops accepting work and waits for in-flight work to finish.
func (s *GoroutineSpawner) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}
