// Package monitor fans out cycle reports to live observers.
package monitor

import (
	"context"
	"sync"

	"github.com/omnisent/sensornode/internal/node"
)

// Broadcaster fans out cycle reports from one source to N listeners.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[*Listener]struct{}
}

// Listener receives cycle reports from the broadcaster.
type Listener struct {
	C    chan node.CycleReport // buffered channel of reports
	done chan struct{}
}

// Done is closed when the listener is unsubscribed.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// NewBroadcaster creates a new broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		listeners: make(map[*Listener]struct{}),
	}
}

// Subscribe registers a new listener. Returns a Listener that receives reports.
func (b *Broadcaster) Subscribe() *Listener {
	l := &Listener{
		C:    make(chan node.CycleReport, 32),
		done: make(chan struct{}),
	}
	b.mu.Lock()
	b.listeners[l] = struct{}{}
	b.mu.Unlock()
	return l
}

// Unsubscribe removes a listener and signals it to stop.
func (b *Broadcaster) Unsubscribe(l *Listener) {
	b.mu.Lock()
	delete(b.listeners, l)
	b.mu.Unlock()
	close(l.done)
}

// ListenerCount returns the number of active listeners.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Run reads reports from source and fans out to all listeners.
// Slow listeners get reports dropped rather than blocking the broadcast.
func (b *Broadcaster) Run(ctx context.Context, source <-chan node.CycleReport) {
	for {
		select {
		case <-ctx.Done():
			return
		case report, ok := <-source:
			if !ok {
				return
			}
			b.mu.RLock()
			for l := range b.listeners {
				select {
				case l.C <- report:
				default:
					// listener too slow, drop the report to keep the feed moving
				}
			}
			b.mu.RUnlock()
		}
	}
}
