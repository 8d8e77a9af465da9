// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	"github.com/helixstake/helix/staking"
)

// Broadcaster fans committed operation events out to live subscribers.
// It implements staking.EventSink so it can be combined with a durable
// sink. A slow subscriber never blocks the engine: when a subscriber's
// buffer is full, events for it are dropped.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan []*staking.Event]struct{}
	closed bool
}

const subscriberBuffer = 64

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan []*staking.Event]struct{}),
	}
}

// SaveEvents delivers one committed operation's events to every subscriber.
func (b *Broadcaster) SaveEvents(events []*staking.Event) error {
	if len(events) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- events:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber. The returned unsubscribe func is
// idempotent and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan []*staking.Event, func()) {
	ch := make(chan []*staking.Event, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
}

// Close drops all subscribers and closes their channels.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
