package core

import (
	"sync"
	"time"
)

// EventKind classifies a decoded event for subscribers.
type EventKind string

const (
	EventPunch        EventKind = "punch"
	EventPushup       EventKind = "pushup"
	EventSitup        EventKind = "situp"
	EventSquat        EventKind = "squat"
	EventHeart        EventKind = "heart"
	EventPair         EventKind = "pair"
	EventDeviceStatus EventKind = "device_status"
	EventConnState    EventKind = "connection"
)

// Event is the envelope delivered to subscribers.
type Event struct {
	Kind      EventKind   `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// subscriber holds a buffered channel for one consumer.
type subscriber struct {
	ch chan Event
}

// Bus fans decoded events out to the consumers currently registered for each
// event kind. It replaces the per-feature callback slot: any number of
// consumers may subscribe to the same kind, and each registration returns its
// own unsubscribe function. An event with no subscriber is dropped; there is
// no queueing for consumers that subscribe later.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventKind]map[*subscriber]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[EventKind]map[*subscriber]struct{})}
}

// Subscribe registers a consumer for one event kind. The unsubscribe
// function must be called when the consumer goes away; it closes the channel.
func (b *Bus) Subscribe(kind EventKind) (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, 64)}
	b.mu.Lock()
	if b.subs[kind] == nil {
		b.subs[kind] = make(map[*subscriber]struct{})
	}
	b.subs[kind][s] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[kind], s)
			b.mu.Unlock()
			close(s.ch)
		})
	}
	return s.ch, unsub
}

// Publish delivers an Event to every subscriber of its kind. A subscriber
// whose buffer is full is skipped so one stalled consumer cannot hold up the
// dispatch loop.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs[e.Kind] {
		select {
		case s.ch <- e:
		default:
			// Slow consumer, drop.
		}
	}
}

// SubscriberCount returns how many consumers are registered for a kind.
func (b *Bus) SubscriberCount(kind EventKind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}
