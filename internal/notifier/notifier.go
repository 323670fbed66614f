// Package notifier fans out catalog reload events to subscribers.
package notifier

import (
	"sync"
	"time"
)

// Reload describes one attempt to reload the catalog from a dataset file.
type Reload struct {
	Path string
	Apps int64
	Err  error
	At   time.Time
}

// Notifier delivers Reload events to every subscriber. Each subscriber
// holds at most one pending event; a newer event replaces an unread one.
type Notifier struct {
	mu          sync.Mutex
	subscribers map[chan Reload]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		subscribers: make(map[chan Reload]struct{}),
	}
}

// Subscribe registers a subscriber. The returned cancel func must be
// called when the subscriber is done; it closes the channel.
func (n *Notifier) Subscribe() (<-chan Reload, func()) {
	ch := make(chan Reload, 1)
	n.mu.Lock()
	n.subscribers[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subscribers, ch)
			n.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev to all subscribers without blocking.
func (n *Notifier) Publish(ev Reload) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subscribers {
		select {
		case ch <- ev:
			continue
		default:
		}
		// drop the stale event
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subscribers)
}
