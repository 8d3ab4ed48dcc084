package events

import "sync"

// Handler receives a published event. Handlers run synchronously in
// subscription order within the publishing step.
type Handler func(Event)

// Bus is a typed in-process dispatcher: channel kind -> ordered handler
// list. Each handler invocation is isolated; one panicking subscriber never
// prevents the others from running, nor crashes the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	taps     []Handler // Observe every event, regardless of kind
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers a handler for one event kind. Handlers run in the
// order they were added.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

// Tap registers a handler that observes every published event. Used by the
// automation harness and tests.
func (b *Bus) Tap(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taps = append(b.taps, h)
}

// Publish delivers the event to all kind subscribers, then all taps.
func (b *Bus) Publish(ev Event) {
	if ev == nil {
		return
	}
	b.mu.RLock()
	kindHandlers := b.handlers[ev.Kind()]
	taps := b.taps
	b.mu.RUnlock()

	for _, h := range kindHandlers {
		deliver(h, ev)
	}
	for _, h := range taps {
		deliver(h, ev)
	}
}

// deliver invokes one handler behind a recover barrier.
func deliver(h Handler, ev Event) {
	defer func() {
		_ = recover()
	}()
	h(ev)
}
