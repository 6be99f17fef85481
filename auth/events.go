// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"log/slog"
	"sync"

	"github.com/Anikhe00/alx-polling-app/models"
)

const subscriberBuffer = 8

// Broker fans auth state changes out to per-user subscribers.
// A subscriber that is not keeping up loses events rather than
// blocking the publisher.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan models.AuthEvent
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]chan models.AuthEvent)}
}

// Subscribe registers for userID's events. The returned cancel func
// closes the channel and must be called exactly once.
func (b *Broker) Subscribe(userID string) (<-chan models.AuthEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan models.AuthEvent, subscriberBuffer)
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[int]chan models.AuthEvent)
	}
	b.subs[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], id)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber of ev.UserID.
func (b *Broker) Publish(ev models.AuthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
			slog.Warn("dropping auth event for slow subscriber", "user_id", ev.UserID, "event", ev.Type)
		}
	}
}

// Subscribers returns the number of open subscriptions for userID.
func (b *Broker) Subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}
