// Package queue provides the small bounded queues that connect pipeline stages.
//
// A queue never blocks its producer. When full it either rejects the incoming
// item (DropNewest) or evicts the oldest buffered one (DropOldest). Every
// dropped item is handed to the optional drop hook so owners can release
// resources such as camera frames.
package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DropPolicy decides what happens when Offer hits a full queue.
type DropPolicy int

const (
	// DropNewest rejects the incoming item.
	DropNewest DropPolicy = iota
	// DropOldest evicts the oldest buffered item to make room.
	DropOldest
)

func (p DropPolicy) String() string {
	switch p {
	case DropNewest:
		return "drop-newest"
	case DropOldest:
		return "drop-oldest"
	default:
		return "unknown"
	}
}

// Stats holds delivery counters for a queue.
type Stats struct {
	Accepted uint64
	Dropped  uint64
}

// Queue is a bounded FIFO safe for concurrent producers and consumers.
type Queue[T any] struct {
	ch     chan T
	policy DropPolicy
	onDrop func(T)

	// serializes evict-then-send for DropOldest producers
	mu sync.Mutex

	accepted atomic.Uint64
	dropped  atomic.Uint64
}

// New creates a queue holding at most capacity items.
func New[T any](capacity int, policy DropPolicy) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{
		ch:     make(chan T, capacity),
		policy: policy,
	}
}

// OnDrop registers a hook called with every item the queue discards,
// including items removed by Drain. Set it before the queue is shared.
func (q *Queue[T]) OnDrop(fn func(T)) {
	q.onDrop = fn
}

// Offer enqueues v without blocking. It reports whether v was accepted.
// Under DropOldest it always succeeds.
func (q *Queue[T]) Offer(v T) bool {
	if q.policy == DropNewest {
		select {
		case q.ch <- v:
			q.accepted.Add(1)
			return true
		default:
			q.drop(v)
			return false
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case q.ch <- v:
			q.accepted.Add(1)
			return true
		default:
		}
		// Full: evict one. A consumer may have emptied a slot meanwhile,
		// in which case the next send succeeds.
		select {
		case old := <-q.ch:
			q.drop(old)
		default:
		}
	}
}

// Receive waits up to timeout for an item. It returns false on timeout
// or when ctx is done.
func (q *Queue[T]) Receive(ctx context.Context, timeout time.Duration) (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v := <-q.ch:
		return v, true
	case <-timer.C:
	case <-ctx.Done():
	}
	var zero T
	return zero, false
}

// TryReceive returns the next item if one is buffered.
func (q *Queue[T]) TryReceive() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Drain discards every buffered item and returns how many were removed.
func (q *Queue[T]) Drain() int {
	n := 0
	for {
		select {
		case v := <-q.ch:
			q.drop(v)
			n++
		default:
			return n
		}
	}
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int { return len(q.ch) }

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int { return cap(q.ch) }

// Stats returns a snapshot of the delivery counters.
func (q *Queue[T]) Stats() Stats {
	return Stats{
		Accepted: q.accepted.Load(),
		Dropped:  q.dropped.Load(),
	}
}

func (q *Queue[T]) drop(v T) {
	q.dropped.Add(1)
	if q.onDrop != nil {
		q.onDrop(v)
	}
}
