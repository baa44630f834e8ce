// internal/submission/queue_test.go
package submission

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testItem(key string) QueueItem {
	return QueueItem{
		ChannelID:      "chan-1",
		Text:           "A new package, **FooLib**, has been submitted for approval!",
		CorrelationKey: key,
		Record: Record{
			Name:           "FooLib",
			Author:         "12345",
			ProjectType:    "plugin",
			CurrentVersion: "1.0",
			RepositoryURL:  "https://example.com/foo",
		},
	}
}

func TestQueue_EnqueueDequeue_FIFO(t *testing.T) {
	q := NewQueue(8)

	assert.NoError(t, q.Enqueue(testItem("key-1")))
	assert.NoError(t, q.Enqueue(testItem("key-2")))
	assert.NoError(t, q.Enqueue(testItem("key-3")))
	assert.Equal(t, 3, q.Len())

	ctx := context.Background()
	for _, want := range []string{"key-1", "key-2", "key-3"} {
		item, err := q.Dequeue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, want, item.CorrelationKey)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_EnqueueFull_FailsFast(t *testing.T) {
	q := NewQueue(2)

	assert.NoError(t, q.Enqueue(testItem("key-1")))
	assert.NoError(t, q.Enqueue(testItem("key-2")))

	start := time.Now()
	err := q.Enqueue(testItem("key-3"))
	assert.ErrorIs(t, err, ErrQueueFull)
	// Must not have blocked the producer.
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewQueue(4)

	done := make(chan QueueItem, 1)
	go func() {
		item, err := q.Dequeue(context.Background())
		if err == nil {
			done <- item
		}
	}()

	// Consumer should be idle, not spinning, while the queue is empty.
	select {
	case <-done:
		t.Fatal("dequeue returned before anything was enqueued")
	case <-time.After(50 * time.Millisecond):
	}

	assert.NoError(t, q.Enqueue(testItem("key-wake")))

	select {
	case item := <-done:
		assert.Equal(t, "key-wake", item.CorrelationKey)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not wake promptly after enqueue")
	}
}

func TestQueue_DequeueCancelled(t *testing.T) {
	q := NewQueue(4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_TryDequeueEmpty(t *testing.T) {
	q := NewQueue(4)

	_, ok := q.TryDequeue()
	assert.False(t, ok)

	assert.NoError(t, q.Enqueue(testItem("key-1")))
	item, ok := q.TryDequeue()
	assert.True(t, ok)
	assert.Equal(t, "key-1", item.CorrelationKey)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue(128)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 16; j++ {
				assert.NoError(t, q.Enqueue(testItem("key")))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 128, q.Len())
}
