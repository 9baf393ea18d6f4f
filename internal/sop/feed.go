package sop

import (
	"sync"
)

// Feed fans newly logged activities out to live subscribers (the admin
// websocket feed). Slow subscribers are dropped rather than blocking the
// request path.
type Feed struct {
	mu   sync.Mutex
	subs map[chan Activity]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[chan Activity]struct{})}
}

func (f *Feed) Subscribe() chan Activity {
	ch := make(chan Activity, 16)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *Feed) Unsubscribe(ch chan Activity) {
	f.mu.Lock()
	if _, ok := f.subs[ch]; ok {
		delete(f.subs, ch)
		close(ch)
	}
	f.mu.Unlock()
}

func (f *Feed) Publish(a Activity) {
	f.mu.Lock()
	for ch := range f.subs {
		select {
		case ch <- a:
		default:
		}
	}
	f.mu.Unlock()
}
