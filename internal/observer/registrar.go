package observer

import (
	"sync"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/eventbus"
)

type registration struct {
	topic   eventbus.Topic
	handler eventbus.Handler
}

// Registrar wires a set of observers onto a bus and tears them down
// together on shutdown.
type Registrar struct {
	mu   sync.Mutex
	bus  *eventbus.Bus
	regs []registration
}

// NewRegistrar creates a Registrar for the given bus.
func NewRegistrar(bus *eventbus.Bus) *Registrar {
	return &Registrar{bus: bus}
}

// Register subscribes handler to topic and remembers the registration.
func (r *Registrar) Register(topic eventbus.Topic, handler eventbus.Handler) {
	r.bus.Subscribe(topic, handler)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs = append(r.regs, registration{topic: topic, handler: handler})
}

// Detach unsubscribes every registration, newest first.
func (r *Registrar) Detach() {
	r.mu.Lock()
	regs := r.regs
	r.regs = nil
	r.mu.Unlock()

	for i := len(regs) - 1; i >= 0; i-- {
		r.bus.Unsubscribe(regs[i].topic, regs[i].handler)
	}
}
