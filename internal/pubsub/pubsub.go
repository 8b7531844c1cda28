// Package pubsub fans out read-model change hints to in-process
// subscribers, backing the reactive subscription stream.
package pubsub

import (
	"sync"
	"time"
)

// Update is a hint that a read model changed. Subscribers re-fetch the
// named resource, the hint itself carries no state.
type Update struct {
	Resource string    `json:"resource"`
	At       time.Time `json:"at"`
}

// Broadcaster delivers updates to all current subscribers. Slow
// subscribers miss updates instead of blocking publishers.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Update]struct{}
}

// NewBroadcaster returns a broadcaster without subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan Update]struct{}),
	}
}

// Subscribe registers a subscriber. The returned cancel function must be
// called when the subscription ends.
func (b *Broadcaster) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 16)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}

	return ch, cancel
}

// Publish delivers an update to all subscribers.
func (b *Broadcaster) Publish(resource string) {
	update := Update{
		Resource: resource,
		At:       time.Now().In(time.UTC),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- update:
		default:
		}
	}
}
