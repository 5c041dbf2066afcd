package core

import (
	"encoding/json"
	"log/slog"
)

// HandlerFunc processes the data payload of one domain event.
type HandlerFunc func(data json.RawMessage)

// Dispatcher routes domain events to their handler by the frame's type tag.
// Frames are dispatched in arrival order; there is no buffering or
// deduplication. A handler failure is contained here so one bad event can
// never take the connection down.
type Dispatcher struct {
	log      *slog.Logger
	handlers map[string]HandlerFunc
}

func NewDispatcher(log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		log:      log,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register installs the handler for one event type. Registration happens
// during client construction, before any frame arrives.
func (d *Dispatcher) Register(eventType string, h HandlerFunc) {
	d.handlers[eventType] = h
}

// Dispatch routes one domain event. An unknown type is logged and dropped,
// not an error.
func (d *Dispatcher) Dispatch(eventType string, data json.RawMessage) {
	h, ok := d.handlers[eventType]
	if !ok {
		d.log.Warn("No handler for event type", "type", eventType)
		return
	}
	d.invoke(eventType, h, data)
}

func (d *Dispatcher) invoke(eventType string, h HandlerFunc, data json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Handler panicked",
				"type", eventType,
				"panic", r)
		}
	}()
	h(data)
}
