package ecs

import "log"

type EventKind uint8

const (
	EventFail EventKind = iota + 1
	EventResetPlayer
	EventGameStateChanged
	EventPillCollected
	EventObstacleHit
	EventChunkSpawned
	EventChunkEvicted
)

var eventNames = map[EventKind]string{
	EventFail:             "fail",
	EventResetPlayer:      "resetPlayer",
	EventGameStateChanged: "gameStateChanged",
	EventPillCollected:    "pillCollected",
	EventObstacleHit:      "obstacleHit",
	EventChunkSpawned:     "chunkSpawned",
	EventChunkEvicted:     "chunkEvicted",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event carries optional simple data alongside its kind.
type Event struct {
	Kind   EventKind
	Entity Entity
	Value  int
}

type EventHandler func(Event)

type subscriber struct {
	id      int
	handler EventHandler
}

// maxDispatchRounds bounds handler chains that keep publishing.
const maxDispatchRounds = 32

// EventBus queues events during a frame and delivers them in publish order
// when Dispatch runs.
type EventBus struct {
	queue  []Event
	subs   map[EventKind][]subscriber
	nextID int
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[EventKind][]subscriber)}
}

func (b *EventBus) Publish(evt Event) {
	if b == nil {
		return
	}
	b.queue = append(b.queue, evt)
}

// Subscribe registers handler for kind and returns a func that removes it.
func (b *EventBus) Subscribe(kind EventKind, handler EventHandler) (unsubscribe func()) {
	if b == nil || handler == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscriber{id: id, handler: handler})
	return func() {
		list := b.subs[kind]
		for i, s := range list {
			if s.id == id {
				b.subs[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (b *EventBus) Pending() int {
	if b == nil {
		return 0
	}
	return len(b.queue)
}

// Dispatch delivers queued events, including those published by handlers
// while dispatching, and returns how many were delivered.
func (b *EventBus) Dispatch() int {
	if b == nil {
		return 0
	}
	delivered := 0
	for round := 0; len(b.queue) > 0; round++ {
		if round == maxDispatchRounds {
			log.Printf("EventBus: dropping %d events after %d rounds", len(b.queue), round)
			b.queue = nil
			break
		}
		batch := b.queue
		b.queue = nil
		for _, evt := range batch {
			handlers := append([]subscriber(nil), b.subs[evt.Kind]...)
			for _, s := range handlers {
				s.handler(evt)
			}
			delivered++
		}
	}
	return delivered
}
