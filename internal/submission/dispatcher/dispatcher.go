// internal/submission/dispatcher/dispatcher.go
package dispatcher

import (
	"context"
	"time"

	"package-directory/internal/common/logger"
	"package-directory/internal/common/metrics"
	"package-directory/internal/common/observability"
	"package-directory/internal/submission"
	"package-directory/internal/submission/tracker"
)

// Notifier posts interactive review messages to the external collaborator.
type Notifier interface {
	PostInteractiveMessage(ctx context.Context, channelID, text, correlationKey string) (messageID string, err error)
}

// Dequeuer is the hand-off queue as seen from the dispatcher.
type Dequeuer interface {
	Dequeue(ctx context.Context) (submission.QueueItem, error)
}

// Dispatcher is the single consumer of the hand-off queue. It posts one
// review notification per item and records the message correlation so the
// resolution handler can find the pending entry later. A failed post drops
// the item; the pending record remains available for out-of-band moderation.
type Dispatcher struct {
	queue       Dequeuer
	notifier    Notifier
	tracker     *tracker.Store
	obs         *observability.Observability
	postTimeout time.Duration
	logger      logger.Logger
}

func New(queue Dequeuer, notifier Notifier, trk *tracker.Store, obs *observability.Observability, postTimeout time.Duration, log logger.Logger) *Dispatcher {
	if postTimeout <= 0 {
		postTimeout = 10 * time.Second
	}
	return &Dispatcher{
		queue:       queue,
		notifier:    notifier,
		tracker:     trk,
		obs:         obs,
		postTimeout: postTimeout,
		logger:      log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Run consumes the queue until ctx is cancelled. The in-flight item, if any,
// finishes its post attempt before Run returns.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("notification dispatcher started", nil)
	for {
		item, err := d.queue.Dequeue(ctx)
		if err != nil {
			d.logger.Info("notification dispatcher stopped", map[string]interface{}{
				"reason": err.Error(),
			})
			return
		}
		d.dispatch(ctx, item)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, item submission.QueueItem) {
	// The post gets its own deadline so a hung collaborator API cannot
	// stall the whole queue. It is detached from ctx so an in-flight item
	// finishes its attempt during shutdown instead of being half posted.
	postCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.postTimeout)
	defer cancel()

	start := time.Now()
	messageID, err := d.notifier.PostInteractiveMessage(postCtx, item.ChannelID, item.Text, item.CorrelationKey)
	elapsed := time.Since(start)
	metrics.DispatchDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.NotificationsPosted.WithLabelValues("failed").Inc()
		if d.obs != nil {
			d.obs.RecordItemProcessed(postCtx, "dispatch", "failed")
		}
		d.logger.Warn("review notification dropped after failed post", map[string]interface{}{
			"correlationKey": item.CorrelationKey,
			"name":           item.Record.Name,
			"error":          err.Error(),
		})
		return
	}

	posted := &submission.PostedNotification{
		CorrelationKey: item.CorrelationKey,
		MessageID:      messageID,
		ChannelID:      item.ChannelID,
		Record:         item.Record,
		PostedAt:       time.Now().UTC(),
	}
	if err := d.tracker.Record(postCtx, posted); err != nil {
		// The message is live but resolutions for it will take the stale
		// path. Logged loudly so an operator can resolve manually.
		metrics.NotificationsPosted.WithLabelValues("untracked").Inc()
		d.logger.Error("posted notification could not be tracked", map[string]interface{}{
			"correlationKey": item.CorrelationKey,
			"messageID":      messageID,
			"error":          err.Error(),
		})
		return
	}

	metrics.NotificationsPosted.WithLabelValues("posted").Inc()
	if d.obs != nil {
		d.obs.RecordItemDuration(postCtx, "dispatch", elapsed, "posted")
	}
	d.logger.Info("review notification posted", map[string]interface{}{
		"correlationKey": item.CorrelationKey,
		"messageID":      messageID,
		"name":           item.Record.Name,
	})
}
