/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package events

import "sync"

// EventType enumerates event categories.
type EventType string

const (
	EventAllocationCompleted EventType = "allocation.completed"
	EventAllocationFailed    EventType = "allocation.failed"
	EventCasesAssigned       EventType = "cases.assigned"
)

// Payload generic event payload.
type Payload map[string]any

// Handler consumes published events.
type Handler func(EventType, Payload)

// Bus is a simple in-process pub/sub fanout.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers the payload to every subscriber of the type. Handlers run
// on the publisher's goroutine; long work belongs inside the handler's own
// goroutine.
func (b *Bus) Publish(eventType EventType, payload Payload) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[eventType]))
	copy(handlers, b.handlers[eventType])
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(eventType, payload)
	}
}
