package server

import (
	"image"
	"sync"
	"time"
)

// Snapshot is one presented composite.
type Snapshot struct {
	Frame *image.RGBA
	Heads []image.Point
	Seq   uint64
	Time  time.Time
}

// FrameHub is a display surface that keeps the latest composite and fans it
// out to HTTP clients. Snapshots are replaced wholesale, never mutated.
type FrameHub struct {
	mu     sync.RWMutex
	latest Snapshot
	subs   map[chan Snapshot]struct{}
}

// NewFrameHub creates an empty FrameHub.
func NewFrameHub() *FrameHub {
	return &FrameHub{
		subs: make(map[chan Snapshot]struct{}),
	}
}

// Present publishes a new composite. Slow subscribers only ever see the
// most recent snapshot.
func (h *FrameHub) Present(frame *image.RGBA, heads []image.Point) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = Snapshot{
		Frame: frame,
		Heads: append([]image.Point(nil), heads...),
		Seq:   h.latest.Seq + 1,
		Time:  time.Now(),
	}

	for ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- h.latest
	}
}

// Latest returns the most recent snapshot. Seq is zero before the first Present.
func (h *FrameHub) Latest() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Subscribe returns a channel receiving every new snapshot and a function
// that cancels the subscription.
func (h *FrameHub) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (h *FrameHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
