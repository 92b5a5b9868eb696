package eventbus

import (
	"log/slog"
	"sync"
	"time"
)

// Options configure a Bus.
type Options struct {
	// Logger receives dispatch warnings and handler failures.
	// Defaults to slog.Default().
	Logger *slog.Logger
	// Spawner schedules deferred handlers. Defaults to a GoroutineSpawner.
	Spawner Spawner
	// HandlerTimeout bounds each handler invocation; expiry is reported as
	// a handler failure and dispatch continues. Zero disables the bound.
	HandlerTimeout time.Duration
	// DebounceWindow drops duplicate topic+name publishes inside the
	// window. Zero disables debouncing.
	DebounceWindow time.Duration
}

// registration pairs a handler with its dispatch mode, resolved once at
// subscribe time.
type registration struct {
	handler  Handler
	deferred bool
}

// Bus is an in-process pub/sub event bus. Handlers subscribed to a topic or
// to TopicWildcard receive every event published under that topic, each in
// isolation: a failing handler is logged and never breaks delivery to the
// others or the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]registration

	spawner  Spawner
	logger   *slog.Logger
	timeout  time.Duration
	debounce *Debouncer
}

// New creates a bus with default options.
func New() *Bus {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a bus.
func NewWithOptions(opts Options) *Bus {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	spawner := opts.Spawner
	if spawner == nil {
		spawner = NewGoroutineSpawner()
	}
	b := &Bus{
		handlers: make(map[Topic][]registration),
		spawner:  spawner,
		logger:   logger.With("component", "eventbus"),
		timeout:  opts.HandlerTimeout,
	}
	if opts.DebounceWindow > 0 {
		b.debounce = NewDebouncer(opts.DebounceWindow)
	}
	return b
}

// Subscribe registers a handler for a topic. Subscribing the same handler to
// the same topic twice has no additional effect.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, reg := range b.handlers[topic] {
		if reg.handler == handler {
			return
		}
	}
	b.handlers[topic] = append(b.handlers[topic], registration{
		handler:  handler,
		deferred: handler.Deferred(),
	})
}

// Unsubscribe removes one registration. Unsubscribing a handler that was
// never registered on the topic is a logged no-op.
func (b *Bus) Unsubscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[topic]
	for i, reg := range regs {
		if reg.handler == handler {
			b.handlers[topic] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
	b.logger.Warn("unsubscribe for handler not registered on topic",
		"topic", topic, "handler", handler.Name())
}

// Publish delivers event to every handler subscribed to topic or to the
// wildcard. Blocking handlers run inline in registration order; deferred
// handlers are scheduled and Publish returns without waiting for them.
func (b *Bus) Publish(topic Topic, event Event) {
	b.dispatch(topic, event, false)
}

// PublishWait behaves like Publish but blocks until every deferred handler
// for this call has finished. Deferred handlers run concurrently with each
// other.
func (b *Bus) PublishWait(topic Topic, event Event) {
	b.dispatch(topic, event, true)
}

func (b *Bus) dispatch(topic Topic, event Event, wait bool) {
	if event.Topic != topic {
		// The event's own topic is never trusted for routing.
		b.logger.Warn("event topic differs from publish topic, routing by publish topic",
			"event", event.Name, "event_topic", event.Topic, "topic", topic)
	}
	if b.debounce != nil && b.debounce.ShouldSkip(topic, event) {
		return
	}

	regs := b.snapshot(topic)

	var deferred []Handler
	for _, reg := range regs {
		if reg.deferred {
			deferred = append(deferred, reg.handler)
			continue
		}
		b.invoke(reg.handler, event)
	}

	var wg sync.WaitGroup
	for _, h := range deferred {
		h := h
		if wait {
			wg.Add(1)
		}
		accepted := b.spawner.Spawn(func() {
			if wait {
				defer wg.Done()
			}
			b.invoke(h, event)
		})
		if !accepted {
			if wait {
				wg.Done()
			}
			b.logger.Warn("no scheduling context for deferred handler, dropping delivery",
				"handler", h.Name(), "event", event.Name)
		}
	}
	if wait {
		wg.Wait()
	}
}

// snapshot returns the handler set for topic (topic-specific plus wildcard,
// deduplicated by handler identity) as a point-in-time copy, so a concurrent
// subscribe or unsubscribe cannot corrupt an in-flight dispatch.
func (b *Bus) snapshot(topic Topic) []registration {
	b.mu.RLock()
	defer b.mu.RUnlock()

	regs := make([]registration, 0, len(b.handlers[topic])+len(b.handlers[TopicWildcard]))
	regs = append(regs, b.handlers[topic]...)
	if topic == TopicWildcard {
		return regs
	}
	for _, wc := range b.handlers[TopicWildcard] {
		dup := false
		for _, reg := range regs {
			if reg.handler == wc.handler {
				dup = true
				break
			}
		}
		if !dup {
			regs = append(regs, wc)
		}
	}
	return regs
}

// invoke runs one handler with fault isolation and the optional per-handler
// timeout.
func (b *Bus) invoke(h Handler, event Event) {
	if b.timeout <= 0 {
		b.run(h, event)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.run(h, event)
	}()

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		// The stalled invocation is abandoned; its goroutine keeps running.
		b.logger.Error("handler timed out",
			"handler", h.Name(), "event", event.Name, "timeout", b.timeout)
	}
}

func (b *Bus) run(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				"handler", h.Name(), "event", event.Name, "panic", r)
		}
	}()
	if err := h.Handle(event); err != nil {
		b.logger.Error("handler failed",
			"handler", h.Name(), "event", event.Name, "error", err)
	}
}

// Close shuts down the spawner if it supports closing. Deferred deliveries
// attempted afterwards are dropped and logged.
func (b *Bus) Close() {
	if c, ok := b.spawner.(interface{ Close() }); ok {
		c.Close()
	}
}
