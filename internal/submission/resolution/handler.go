// internal/submission/resolution/handler.go
package resolution

import (
	"context"
	"database/sql"
	stderrors "errors"

	"package-directory/internal/catalog"
	"package-directory/internal/common/errors"
	"package-directory/internal/common/logger"
	"package-directory/internal/common/metrics"
	"package-directory/internal/submission"
	"package-directory/internal/submission/tracker"
)

// Result is the terminal record of one resolution attempt.
type Result struct {
	Outcome        submission.Outcome
	CorrelationKey string
	Record         submission.Record
	PackageID      int64 // set only on approval
	ResolvedBy     string
}

// Handler applies a reviewer's decision to a pending submission. The pending
// row delete inside the transaction is the single arbiter between racing
// resolutions: exactly one attempt removes the row, every other attempt
// observes zero rows and takes the stale path without mutating anything.
type Handler struct {
	db        *sql.DB
	pending   *catalog.PendingStore
	published *catalog.PublishedStore
	tracker   *tracker.Store
	logger    logger.Logger
}

func NewHandler(db *sql.DB, pending *catalog.PendingStore, published *catalog.PublishedStore, trk *tracker.Store, log logger.Logger) *Handler {
	return &Handler{
		db:        db,
		pending:   pending,
		published: published,
		tracker:   trk,
		logger:    log.WithFields(map[string]interface{}{"component": "resolution"}),
	}
}

// Resolve applies action to the submission identified by correlationKey.
// A stale attempt (unknown key, expired tracking, or lost race) returns a
// Result with OutcomeStale and no error.
func (h *Handler) Resolve(ctx context.Context, action submission.Action, correlationKey, actorID string) (*Result, error) {
	if action != submission.ActionApprove && action != submission.ActionReject {
		return nil, errors.NewValidationFailedError("unknown resolution action: " + string(action))
	}

	posted, err := h.tracker.Lookup(ctx, correlationKey)
	if stderrors.Is(err, tracker.ErrNotTracked) {
		metrics.ResolutionsProcessed.WithLabelValues(string(submission.OutcomeStale)).Inc()
		h.logger.Info("resolution for untracked submission ignored", map[string]interface{}{
			"correlationKey": correlationKey,
			"action":         string(action),
			"actor":          actorID,
		})
		return &Result{Outcome: submission.OutcomeStale, CorrelationKey: correlationKey, ResolvedBy: actorID}, nil
	}
	if err != nil {
		return nil, errors.NewStorageError("lookup posted notification", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewStorageError("begin resolution transaction", err)
	}

	removed, err := h.pending.DeleteTx(ctx, tx, correlationKey)
	if err != nil {
		tx.Rollback()
		return nil, errors.NewStorageError("delete pending entry", err)
	}
	if removed == 0 {
		// Another resolution already consumed the row.
		tx.Rollback()
		h.forgetTracking(ctx, correlationKey)
		metrics.ResolutionsProcessed.WithLabelValues(string(submission.OutcomeStale)).Inc()
		return &Result{Outcome: submission.OutcomeStale, CorrelationKey: correlationKey, ResolvedBy: actorID}, nil
	}

	result := &Result{
		CorrelationKey: correlationKey,
		Record:         posted.Record,
		ResolvedBy:     actorID,
	}

	switch action {
	case submission.ActionApprove:
		packageID, err := h.published.InsertTx(ctx, tx, posted.Record)
		if err != nil {
			tx.Rollback()
			return nil, errors.NewStorageError("publish package", err)
		}
		result.Outcome = submission.OutcomeApproved
		result.PackageID = packageID
	case submission.ActionReject:
		result.Outcome = submission.OutcomeRejected
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewStorageError("commit resolution", err)
	}

	h.forgetTracking(ctx, correlationKey)
	metrics.ResolutionsProcessed.WithLabelValues(string(result.Outcome)).Inc()
	h.logger.Info("submission resolved", map[string]interface{}{
		"correlationKey": correlationKey,
		"outcome":        string(result.Outcome),
		"name":           posted.Record.Name,
		"actor":          actorID,
	})

	return result, nil
}

// forgetTracking is best effort. An orphaned tracker entry expires on its
// own TTL and any later resolution through it hits the zero-row stale path.
func (h *Handler) forgetTracking(ctx context.Context, correlationKey string) {
	if err := h.tracker.Remove(ctx, correlationKey); err != nil {
		h.logger.Warn("tracker cleanup failed", map[string]interface{}{
			"correlationKey": correlationKey,
			"error":          err.Error(),
		})
	}
}
