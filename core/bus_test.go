package core

import (
	"testing"
)

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus()
	first, unsubFirst := bus.Subscribe(EventSquat)
	second, _ := bus.Subscribe(EventSquat)

	// A second registration does not displace the first.
	bus.Publish(Event{Kind: EventSquat, Data: CountReading{Count: 1}})

	if recv(t, first).Data.(CountReading).Count != 1 {
		t.Error("first subscriber missed the event")
	}
	if recv(t, second).Data.(CountReading).Count != 1 {
		t.Error("second subscriber missed the event")
	}

	// After unsubscribing, only the remaining subscriber is reached.
	unsubFirst()
	bus.Publish(Event{Kind: EventSquat, Data: CountReading{Count: 2}})

	if recv(t, second).Data.(CountReading).Count != 2 {
		t.Error("remaining subscriber missed the event")
	}
	if _, open := <-first; open {
		t.Error("expected unsubscribed channel to be closed")
	}
}

func TestBusUnsubscribeTwice(t *testing.T) {
	bus := NewBus()
	_, unsub := bus.Subscribe(EventHeart)
	unsub()
	unsub() // must not panic
}

func TestBusKindIsolation(t *testing.T) {
	bus := NewBus()
	punch, _ := bus.Subscribe(EventPunch)
	heart, _ := bus.Subscribe(EventHeart)

	bus.Publish(Event{Kind: EventPunch, Data: PunchReading{Count: 1}})

	recv(t, punch)
	assertEmpty(t, "heart", heart)
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not block or panic.
	bus.Publish(Event{Kind: EventPair, Data: PairUpdate{DeviceUUID: "d-1"}})
}

func TestBusDropsOnFullBuffer(t *testing.T) {
	bus := NewBus()
	ch, _ := bus.Subscribe(EventSquat)

	// Overfill the subscriber buffer without draining; Publish must not block.
	for i := 0; i < 100; i++ {
		bus.Publish(Event{Kind: EventSquat, Data: CountReading{Count: i}})
	}

	if got := len(ch); got != 64 {
		t.Errorf("expected buffer capped at 64 events, got %d", got)
	}
}

func TestBusTimestampsEvents(t *testing.T) {
	bus := NewBus()
	ch, _ := bus.Subscribe(EventDeviceStatus)

	bus.Publish(Event{Kind: EventDeviceStatus, Data: DeviceStatus{}})

	if recv(t, ch).Timestamp.IsZero() {
		t.Error("expected Publish to stamp the event time")
	}
}

func TestBusSubscriberCount(t *testing.T) {
	bus := NewBus()
	if got := bus.SubscriberCount(EventPunch); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}
	_, unsub := bus.Subscribe(EventPunch)
	if got := bus.SubscriberCount(EventPunch); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}
	unsub()
	if got := bus.SubscriberCount(EventPunch); got != 0 {
		t.Fatalf("expected 0 subscribers after unsubscribe, got %d", got)
	}
}
