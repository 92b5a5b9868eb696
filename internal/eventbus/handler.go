package eventbus

// Handler processes events delivered by the bus. Whether a handler runs
// inline or in the background is fixed per instance and resolved when it is
// subscribed, never at dispatch time.
type Handler interface {
	// Name identifies the handler in logs.
	Name() string
	// Deferred reports whether Handle is scheduled as background work
	// instead of running inline during publish.
	Deferred() bool
	// Handle processes one event. A returned error is logged by the bus
	// and never reaches the publisher or sibling handlers.
	Handle(event Event) error
}

// HandlerFunc is the processing function wrapped by the concrete handler
// variants below.
type HandlerFunc func(Event) error

// BlockingHandler runs inline during publish, before the call returns.
type BlockingHandler struct {
	name string
	fn   HandlerFunc
}

// NewBlockingHandler wraps fn as a blocking handler.
func NewBlockingHandler(name string, fn HandlerFunc) *BlockingHandler {
	if name == "" {
		name = "blocking_handler"
	}
	return &BlockingHandler{name: name, fn: fn}
}

func (h *BlockingHandler) Name() string             { return h.name }
func (h *BlockingHandler) Deferred() bool           { return false }
func (h *BlockingHandler) Handle(event Event) error { return h.fn(event) }

// DeferredHandler is scheduled onto the bus spawner; publishers do not wait
// for it unless they use PublishWait.
type DeferredHandler struct {
	name string
	fn   HandlerFunc
}

// NewDeferredHandler wraps fn as a deferred handler.
func NewDeferredHandler(name string, fn HandlerFunc) *DeferredHandler {
	if name == "" {
		name = "deferred_handler"
	}
	return &DeferredHandler{name: name, fn: fn}
}

func (h *DeferredHandler) Name() string             { return h.name }
func (h *DeferredHandler) Deferred() bool           { return true }
func (h *DeferredHandler) Handle(event Event) error { return h.fn(event) }
