// internal/submission/queue.go
package submission

import (
	"context"
	"errors"

	"package-directory/internal/common/metrics"
)

var ErrQueueFull = errors.New("QUEUE_FULL")

// Queue is the bounded multi-producer/single-consumer FIFO bridging the
// request-handling goroutines and the dispatcher goroutine. Enqueue never
// blocks a web-facing goroutine: a full queue fails fast with ErrQueueFull.
// The consumer blocks on Dequeue instead of polling.
type Queue struct {
	items chan QueueItem
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 256
	}
	return &Queue{
		items: make(chan QueueItem, capacity),
	}
}

// Enqueue adds an item without blocking. Returns ErrQueueFull when the
// buffer is saturated.
func (q *Queue) Enqueue(item QueueItem) error {
	select {
	case q.items <- item:
		metrics.QueueDepth.Set(float64(len(q.items)))
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue blocks until an item is available or ctx is cancelled. FIFO order
// is preserved by the underlying channel.
func (q *Queue) Dequeue(ctx context.Context) (QueueItem, error) {
	select {
	case item := <-q.items:
		metrics.QueueDepth.Set(float64(len(q.items)))
		return item, nil
	case <-ctx.Done():
		return QueueItem{}, ctx.Err()
	}
}

// TryDequeue removes an item if one is immediately available.
func (q *Queue) TryDequeue() (QueueItem, bool) {
	select {
	case item := <-q.items:
		metrics.QueueDepth.Set(float64(len(q.items)))
		return item, true
	default:
		return QueueItem{}, false
	}
}

// Len reports the number of items currently waiting.
func (q *Queue) Len() int {
	return len(q.items)
}
