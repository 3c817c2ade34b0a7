package app

import (
	"sync"

	"vocab-quiz-service/internal/domain"
)

// ResultFeed fans newly recorded test results out to live subscribers
// (teacher dashboards). Slow subscribers never block the publisher: the
// oldest queued update is dropped to make room for the newest.
type ResultFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.TestResult]struct{}
}

func NewResultFeed() *ResultFeed {
	return &ResultFeed{subscribers: make(map[chan domain.TestResult]struct{})}
}

// Subscribe returns a channel of result updates. The caller must invoke the
// returned cancel function to avoid leaks.
func (f *ResultFeed) Subscribe() (<-chan domain.TestResult, func()) {
	ch := make(chan domain.TestResult, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a result to every subscriber.
func (f *ResultFeed) Publish(r domain.TestResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- r:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- r
		}
	}
}
