package gatt

import (
	"context"
	"sync"
	"time"
)

// An EventQueue serializes all work onto a single goroutine. Host-stack
// callbacks and locally produced events (a button edge, a periodic
// timer) are posted here and run to completion in enqueue order; handlers
// are never preempted by other handlers.
//
// Posting is safe from any goroutine, so interrupt-style producers are
// restricted to Post and never touch shared state directly.
type EventQueue struct {
	events chan func()

	mu     sync.Mutex
	nextID TimerID
	timers map[TimerID]*periodicTimer
}

// A periodicTimer pairs a ticker with the done channel that releases
// its posting goroutine. Ticker.Stop never closes the tick channel, so
// stopping alone would leave the goroutine blocked forever.
type periodicTimer struct {
	ticker *time.Ticker
	done   chan struct{}
}

// A TimerID identifies a periodic event armed with PostEvery.
type TimerID uint64

// NewEventQueue returns a queue buffering up to cap pending events.
func NewEventQueue(cap int) *EventQueue {
	if cap <= 0 {
		panic("gatt: event queue capacity must be > 0")
	}
	return &EventQueue{
		events: make(chan func(), cap),
		timers: make(map[TimerID]*periodicTimer),
	}
}

// Post enqueues f. It blocks if the queue is full, preserving strict
// enqueue order; events are never dropped or reordered.
func (q *EventQueue) Post(f func()) {
	q.events <- f
}

// PostEvery arms a periodic event: f is posted onto the queue every d
// until Cancel is called with the returned id.
func (q *EventQueue) PostEvery(d time.Duration, f func()) TimerID {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	t := &periodicTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	q.timers[id] = t
	q.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.ticker.C:
				q.Post(f)
			case <-t.done:
				return
			}
		}
	}()
	return id
}

// Cancel disarms a periodic event and releases its posting goroutine.
// Canceling an unknown or already canceled id is a no-op. An occurrence
// already posted still runs.
func (q *EventQueue) Cancel(id TimerID) {
	q.mu.Lock()
	t, ok := q.timers[id]
	if ok {
		delete(q.timers, id)
	}
	q.mu.Unlock()
	if ok {
		t.ticker.Stop()
		close(t.done)
	}
}

// Dispatch runs posted events on the calling goroutine, in enqueue
// order, until ctx is done.
func (q *EventQueue) Dispatch(ctx context.Context) {
	for {
		select {
		case f := <-q.events:
			f()
		case <-ctx.Done():
			return
		}
	}
}

// DispatchPending runs the events already enqueued, then returns. It is
// mainly useful in tests and in callers that interleave the queue with
// other work.
func (q *EventQueue) DispatchPending() {
	for {
		select {
		case f := <-q.events:
			f()
		default:
			return
		}
	}
}
