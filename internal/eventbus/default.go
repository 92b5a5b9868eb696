package eventbus

import "sync"

var (
	defaultOnce sync.Once
	defaultBus  *Bus
)

// Default returns the process-wide bus. Components with a composition root
// should take a *Bus explicitly; Default exists so callers without one can
// still publish and subscribe against a single shared instance.
func Default() *Bus {
	defaultOnce.Do(func() {
		defaultBus = New()
	})
	return defaultBus
}
