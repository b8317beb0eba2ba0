// Package events carries console domain events: a typed in-process bus for
// subscribers (notification surfaces, stat counters) plus an optional Kafka
// mirror for out-of-process consumers.
package events

import (
	"sync"
	"time"
)

// Kind identifies the event type.
type Kind string

const (
	// KindOwnershipTransferred fires after a successful ownership transfer.
	KindOwnershipTransferred Kind = "ownership_transferred"
	// KindProviderModelsChanged fires when a provider's model list changed and
	// dependent views should reload.
	KindProviderModelsChanged Kind = "provider_models_changed"
)

// Event is one console domain event.
type Event struct {
	Kind        Kind      `json:"kind"`
	WorkspaceID string    `json:"workspace_id"`
	// ActorID is the account that caused the event, when known.
	ActorID string `json:"actor_id,omitempty"`
	// SubjectID is the account or resource the event is about.
	SubjectID string `json:"subject_id,omitempty"`
	// Provider is set for KindProviderModelsChanged.
	Provider   string    `json:"provider,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

const subscriberBuffer = 16

// Bus is an in-process publish/subscribe channel for Events. Publish never
// blocks: a subscriber that has fallen subscriberBuffer events behind misses
// the overflow.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber. The returned cancel func removes the
// subscription and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers e to all current subscribers without blocking.
func (b *Bus) Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
