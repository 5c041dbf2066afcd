package core

import (
	"encoding/json"
	"testing"
)

func TestDispatchUnknownType(t *testing.T) {
	d := NewDispatcher(discardLogger())

	called := false
	d.Register(TypeHeartSensing, func(data json.RawMessage) { called = true })

	// Must not panic and must not invoke any handler.
	d.Dispatch("no_such_event", json.RawMessage(`{}`))

	if called {
		t.Error("expected no handler invocation for unknown type")
	}
}

func TestDispatchIsolatesHandlerPanic(t *testing.T) {
	d := NewDispatcher(discardLogger())

	d.Register("broken", func(data json.RawMessage) {
		panic("handler bug")
	})
	var delivered []string
	d.Register("fine", func(data json.RawMessage) {
		delivered = append(delivered, string(data))
	})

	d.Dispatch("broken", json.RawMessage(`{}`))
	d.Dispatch("fine", json.RawMessage(`{"n":1}`))
	d.Dispatch("broken", json.RawMessage(`{}`))
	d.Dispatch("fine", json.RawMessage(`{"n":2}`))

	if len(delivered) != 2 {
		t.Fatalf("expected 2 deliveries after panicking handler, got %d", len(delivered))
	}
}

func TestDispatchInOrder(t *testing.T) {
	d := NewDispatcher(discardLogger())

	var got []string
	d.Register(TypeSportSensing, func(data json.RawMessage) {
		got = append(got, string(data))
	})

	frames := []string{`{"i":0}`, `{"i":1}`, `{"i":2}`}
	for _, f := range frames {
		d.Dispatch(TypeSportSensing, json.RawMessage(f))
	}

	for i, f := range frames {
		if got[i] != f {
			t.Errorf("frame %d dispatched out of order: got %s", i, got[i])
		}
	}
}
