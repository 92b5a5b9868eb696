package eventbus

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// debounceCacheSize bounds the signature cache; entries past the window are
// evicted by TTL regardless.
const debounceCacheSize = 4096

// Debouncer skips duplicate publishes of the same topic+name inside a fixed
// window. Signatures age out of the backing LRU by TTL, so no cleanup loop
// is needed.
type Debouncer struct {
	window time.Duration
	seen   *expirable.LRU[string, time.Time]
}

// NewDebouncer creates a debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		seen:   expirable.NewLRU[string, time.Time](debounceCacheSize, nil, window),
	}
}

// ShouldSkip reports whether a duplicate of this event was published within
// the window, recording the event if not.
func (d *Debouncer) ShouldSkip(topic Topic, event Event) bool {
	sig := string(topic) + ":" + event.Name
	if last, ok := d.seen.Get(sig); ok && time.Since(last) <= d.window {
		return true
	}
	d.seen.Add(sig, time.Now())
	return false
}
