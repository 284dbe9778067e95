// Package eventbus fans the latest fleet snapshot out to SSE clients and
// watcher goroutines.
package eventbus

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kfenech/ferrywatch/core/model"
)

// FleetUpdate is one complete fleet snapshot as published after a feed tick.
type FleetUpdate struct {
	Vessels []model.Vessel
}

// Bus is a non-blocking publish/subscribe fan-out. Slow subscribers miss
// updates rather than stalling the feed; the next tick supersedes anything
// they missed anyway.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]chan FleetUpdate
	closed bool
}

// New creates a Bus.
func New() *Bus {
	return &Bus{subs: map[string]chan FleetUpdate{}}
}

// Publish delivers the update to every subscriber without blocking.
func (b *Bus) Publish(u FleetUpdate) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its id and channel.
func (b *Bus) Subscribe() (string, <-chan FleetUpdate) {
	id := uuid.NewString()
	ch := make(chan FleetUpdate, 8)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs[id] = ch
	}
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes the subscriber and closes its channel. Safe to call
// after Close.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	if !b.closed {
		close(ch)
	}
}

// Subscribers returns the current subscriber count.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes all subscriber channels. Publish becomes a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
