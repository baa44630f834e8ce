// internal/submission/resolution/handler_test.go
package resolution

import (
	"context"
	"fmt"
	"testing"
	"time"

	"package-directory/internal/catalog"
	"package-directory/internal/common/errors"
	"package-directory/internal/common/logger"
	"package-directory/internal/submission"
	"package-directory/internal/submission/tracker"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Fixtures
// ==========================

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *tracker.Store) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	trk := tracker.New(client, time.Hour)

	handler := NewHandler(db, catalog.NewPendingStore(db), catalog.NewPublishedStore(db), trk, logger.NewNoOpLogger())
	return handler, mock, trk
}

func trackSubmission(t *testing.T, trk *tracker.Store, key string) submission.Record {
	t.Helper()
	record := submission.Record{
		Name:           "terrain-tools",
		Author:         "octocat",
		ProjectType:    "plugin",
		CurrentVersion: "1.4.0",
		RepositoryURL:  "https://github.com/octocat/terrain-tools",
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	err := trk.Record(context.Background(), &submission.PostedNotification{
		CorrelationKey: key,
		MessageID:      "msg-1",
		ChannelID:      "review-channel",
		Record:         record,
		PostedAt:       time.Now().UTC(),
	})
	assert.NoError(t, err)
	return record
}

// ==========================
// Resolve
// ==========================

func TestResolve_Approve(t *testing.T) {
	handler, mock, trk := newTestHandler(t)
	trackSubmission(t, trk, "key-1")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM not_approved`).
		WithArgs("key-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO packages`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	result, err := handler.Resolve(context.Background(), submission.ActionApprove, "key-1", "reviewer-7")

	assert.NoError(t, err)
	assert.Equal(t, submission.OutcomeApproved, result.Outcome)
	assert.Equal(t, int64(42), result.PackageID)
	assert.Equal(t, "terrain-tools", result.Record.Name)
	assert.Equal(t, "reviewer-7", result.ResolvedBy)
	assert.NoError(t, mock.ExpectationsWereMet())

	// The correlation is gone, so a second press is stale.
	_, err = trk.Lookup(context.Background(), "key-1")
	assert.ErrorIs(t, err, tracker.ErrNotTracked)
}

func TestResolve_Reject(t *testing.T) {
	handler, mock, trk := newTestHandler(t)
	trackSubmission(t, trk, "key-1")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM not_approved`).
		WithArgs("key-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := handler.Resolve(context.Background(), submission.ActionReject, "key-1", "reviewer-7")

	assert.NoError(t, err)
	assert.Equal(t, submission.OutcomeRejected, result.Outcome)
	assert.Zero(t, result.PackageID)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = trk.Lookup(context.Background(), "key-1")
	assert.ErrorIs(t, err, tracker.ErrNotTracked)
}

func TestResolve_UntrackedKeyIsStale(t *testing.T) {
	handler, mock, _ := newTestHandler(t)

	result, err := handler.Resolve(context.Background(), submission.ActionApprove, "never-posted", "reviewer-7")

	assert.NoError(t, err)
	assert.Equal(t, submission.OutcomeStale, result.Outcome)
	// No transaction was opened; nothing was mutated.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_LostRaceIsStale(t *testing.T) {
	handler, mock, trk := newTestHandler(t)
	trackSubmission(t, trk, "key-1")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM not_approved`).
		WithArgs("key-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	result, err := handler.Resolve(context.Background(), submission.ActionApprove, "key-1", "reviewer-7")

	assert.NoError(t, err)
	assert.Equal(t, submission.OutcomeStale, result.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())

	// The loser also cleans up the correlation.
	_, err = trk.Lookup(context.Background(), "key-1")
	assert.ErrorIs(t, err, tracker.ErrNotTracked)
}

func TestResolve_PublishFailureRollsBack(t *testing.T) {
	handler, mock, trk := newTestHandler(t)
	trackSubmission(t, trk, "key-1")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM not_approved`).
		WithArgs("key-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO packages`).
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	result, err := handler.Resolve(context.Background(), submission.ActionApprove, "key-1", "reviewer-7")

	assert.Nil(t, result)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStorageError))
	assert.True(t, errors.IsRetryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())

	// The pending row survived the rollback, so the correlation stays live
	// for a retried press.
	_, lookupErr := trk.Lookup(context.Background(), "key-1")
	assert.NoError(t, lookupErr)
}

func TestResolve_UnknownAction(t *testing.T) {
	handler, _, trk := newTestHandler(t)
	trackSubmission(t, trk, "key-1")

	result, err := handler.Resolve(context.Background(), submission.Action("escalate"), "key-1", "reviewer-7")

	assert.Nil(t, result)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
}
