package event

import (
	"slices"
	"sync"
)

// AllEvents subscribes a handler to every event name
const AllEvents = "*"

// EventHandler handles domain events
type EventHandler interface {
	Handle(event DomainEvent) error
	// HandledEvents lists event names, or AllEvents
	HandledEvents() []string
}

// EventDispatcher dispatches domain events to registered handlers
type EventDispatcher interface {
	Dispatch(event DomainEvent)
	Subscribe(handler EventHandler)
	Unsubscribe(handler EventHandler)
}

// ErrorFunc receives handler failures; dispatch continues with the next handler
type ErrorFunc func(event DomainEvent, err error)

// InMemoryDispatcher calls handlers synchronously in subscription order,
// named subscribers before AllEvents subscribers
type InMemoryDispatcher struct {
	mu      sync.RWMutex
	byName  map[string][]EventHandler
	onError ErrorFunc
}

// NewInMemoryDispatcher creates a dispatcher. onError may be nil.
func NewInMemoryDispatcher(onError ErrorFunc) *InMemoryDispatcher {
	return &InMemoryDispatcher{
		byName:  make(map[string][]EventHandler),
		onError: onError,
	}
}

// Dispatch delivers event before returning
func (d *InMemoryDispatcher) Dispatch(event DomainEvent) {
	d.mu.RLock()
	targets := slices.Concat(d.byName[event.EventName()], d.byName[AllEvents])
	d.mu.RUnlock()

	for _, h := range targets {
		err := h.Handle(event)
		if err != nil && d.onError != nil {
			d.onError(event, err)
		}
	}
}

// Subscribe registers handler under each of its event names
func (d *InMemoryDispatcher) Subscribe(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, name := range handler.HandledEvents() {
		d.byName[name] = append(d.byName[name], handler)
	}
}

// Unsubscribe removes handler from all of its event names
func (d *InMemoryDispatcher) Unsubscribe(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, name := range handler.HandledEvents() {
		d.byName[name] = slices.DeleteFunc(d.byName[name], func(h EventHandler) bool {
			return h == handler
		})
	}
}

// Discard drops every event
var Discard EventDispatcher = discard{}

type discard struct{}

func (discard) Dispatch(DomainEvent)     {}
func (discard) Subscribe(EventHandler)   {}
func (discard) Unsubscribe(EventHandler) {}
