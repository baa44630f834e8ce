// internal/submission/intake/handler.go
package intake

import (
	"context"
	"time"

	"package-directory/internal/catalog"
	"package-directory/internal/common/auth"
	"package-directory/internal/common/errors"
	"package-directory/internal/common/logger"
	"package-directory/internal/common/metrics"
	"package-directory/internal/submission"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = pq.ErrorCode("23505")

// Enqueuer is the hand-off queue as seen from intake.
type Enqueuer interface {
	Enqueue(item submission.QueueItem) error
}

// Handler validates and persists incoming submissions, then hands them to
// the notification queue. It never blocks on the review outcome.
type Handler struct {
	pending   *catalog.PendingStore
	queue     Enqueuer
	channelID string
	logger    logger.Logger
}

func NewHandler(pending *catalog.PendingStore, queue Enqueuer, channelID string, log logger.Logger) *Handler {
	return &Handler{
		pending:   pending,
		queue:     queue,
		channelID: channelID,
		logger:    log.WithFields(map[string]interface{}{"component": "intake"}),
	}
}

// Execute runs the intake contract: authenticate, validate, persist, enqueue.
// The relational insert is the commit point; a failed enqueue afterwards
// still acknowledges the submission, with the notification marked as not
// scheduled.
func (h *Handler) Execute(ctx context.Context, input *Input, ident *auth.Identity) (*Output, error) {
	if ident == nil || ident.ID == "" {
		metrics.SubmissionsReceived.WithLabelValues("unauthenticated").Inc()
		return nil, errors.NewUnauthenticatedError("no caller identity on submission")
	}

	if err := validateInput(input); err != nil {
		metrics.SubmissionsReceived.WithLabelValues("validation_failed").Inc()
		return nil, err
	}

	taken, err := h.pending.NameTaken(ctx, input.Name)
	if err != nil {
		metrics.SubmissionsReceived.WithLabelValues("storage_error").Inc()
		return nil, errors.NewStorageError("name lookup", err)
	}
	if taken {
		metrics.SubmissionsReceived.WithLabelValues("duplicate").Inc()
		return nil, errors.NewDuplicatePackageError(input.Name)
	}

	now := time.Now().UTC()
	record := input.toRecord(ident.ID, now)
	correlationKey := uuid.New().String()

	if err := h.pending.Insert(ctx, correlationKey, record); err != nil {
		metrics.SubmissionsReceived.WithLabelValues("storage_error").Inc()
		// Two racing submissions with the same name reach the insert; the
		// unique constraint arbitrates.
		if pqErr, ok := unwrapPQ(err); ok && pqErr.Code == uniqueViolation {
			return nil, errors.NewDuplicatePackageError(input.Name)
		}
		return nil, errors.NewStorageError("insert pending", err)
	}

	output := &Output{
		CorrelationKey:        correlationKey,
		Name:                  record.Name,
		Status:                "pending_review",
		NotificationScheduled: true,
		SubmittedAt:           now.Format(time.RFC3339),
	}

	item := submission.QueueItem{
		ChannelID:      h.channelID,
		Text:           submission.RenderReviewText(record),
		Record:         record,
		CorrelationKey: correlationKey,
	}

	// Enqueue is best effort past the insert: the persisted record stays
	// visible to out-of-band moderation even if no notification goes out.
	if err := h.queue.Enqueue(item); err != nil {
		output.NotificationScheduled = false
		metrics.SubmissionsReceived.WithLabelValues("delivery_failed").Inc()
		h.logger.Warn("notification hand-off failed, submission stored without active notification", map[string]interface{}{
			"correlationKey": correlationKey,
			"name":           record.Name,
			"error":          err.Error(),
		})
		return output, nil
	}

	metrics.SubmissionsReceived.WithLabelValues("accepted").Inc()
	h.logger.Info("submission accepted", map[string]interface{}{
		"correlationKey": correlationKey,
		"name":           record.Name,
		"author":         record.Author,
	})

	return output, nil
}

func unwrapPQ(err error) (*pq.Error, bool) {
	for err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return pqErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}
