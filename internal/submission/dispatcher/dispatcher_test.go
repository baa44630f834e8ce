// internal/submission/dispatcher/dispatcher_test.go
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"package-directory/internal/common/logger"
	"package-directory/internal/submission"
	"package-directory/internal/submission/tracker"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Fixtures
// ==========================

type fakeNotifier struct {
	mu     sync.Mutex
	posted []string
	err    error
	block  chan struct{}
}

func (n *fakeNotifier) PostInteractiveMessage(ctx context.Context, channelID, text, correlationKey string) (string, error) {
	if n.block != nil {
		select {
		case <-n.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if n.err != nil {
		return "", n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.posted = append(n.posted, correlationKey)
	return fmt.Sprintf("msg-%d", len(n.posted)), nil
}

func (n *fakeNotifier) postedKeys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.posted...)
}

func newTestTracker(t *testing.T) *tracker.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return tracker.New(client, time.Hour)
}

func testItem(key string) submission.QueueItem {
	record := submission.Record{
		Name:           "terrain-tools",
		Author:         "octocat",
		ProjectType:    "plugin",
		CurrentVersion: "1.4.0",
		RepositoryURL:  "https://github.com/octocat/terrain-tools",
		CreatedAt:      time.Now().UTC(),
	}
	return submission.QueueItem{
		ChannelID:      "review-channel",
		Text:           submission.RenderReviewText(record),
		Record:         record,
		CorrelationKey: key,
	}
}

// ==========================
// Run
// ==========================

func TestRun_PostsAndTracks(t *testing.T) {
	queue := submission.NewQueue(8)
	notifier := &fakeNotifier{}
	trk := newTestTracker(t)
	d := New(queue, notifier, trk, nil, time.Second, logger.NewNoOpLogger())

	assert.NoError(t, queue.Enqueue(testItem("key-1")))
	assert.NoError(t, queue.Enqueue(testItem("key-2")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return len(notifier.postedKeys()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop on cancel")
	}

	// FIFO order is preserved across the queue.
	assert.Equal(t, []string{"key-1", "key-2"}, notifier.postedKeys())

	posted, err := trk.Lookup(context.Background(), "key-1")
	assert.NoError(t, err)
	assert.Equal(t, "msg-1", posted.MessageID)
	assert.Equal(t, "review-channel", posted.ChannelID)
	assert.Equal(t, "terrain-tools", posted.Record.Name)
}

func TestRun_DropsItemOnPostFailure(t *testing.T) {
	queue := submission.NewQueue(8)
	notifier := &fakeNotifier{err: fmt.Errorf("collaborator unavailable")}
	trk := newTestTracker(t)
	d := New(queue, notifier, trk, nil, time.Second, logger.NewNoOpLogger())

	assert.NoError(t, queue.Enqueue(testItem("key-1")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return queue.Len() == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	// One attempt, no retry, no correlation left behind.
	_, err := trk.Lookup(context.Background(), "key-1")
	assert.ErrorIs(t, err, tracker.ErrNotTracked)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	queue := submission.NewQueue(8)
	d := New(queue, &fakeNotifier{}, newTestTracker(t), nil, time.Second, logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop while idle")
	}
}

func TestDispatch_PostTimeout(t *testing.T) {
	queue := submission.NewQueue(8)
	notifier := &fakeNotifier{block: make(chan struct{})}
	trk := newTestTracker(t)
	d := New(queue, notifier, trk, nil, 20*time.Millisecond, logger.NewNoOpLogger())

	d.dispatch(context.Background(), testItem("key-slow"))

	// The blocked post hit its deadline and the item was dropped.
	_, err := trk.Lookup(context.Background(), "key-slow")
	assert.ErrorIs(t, err, tracker.ErrNotTracked)
	assert.Empty(t, notifier.postedKeys())
}
