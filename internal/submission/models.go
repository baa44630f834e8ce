// internal/submission/models.go
package submission

import (
	"fmt"
	"time"
)

// Record is the field tuple of one package submission as it moves through the
// pipeline: intake -> pending store -> hand-off queue -> posted notification
// -> resolution.
type Record struct {
	Name           string    `json:"name"`
	Author         string    `json:"author"`
	ProjectType    string    `json:"project_type"`
	CurrentVersion string    `json:"current_version"`
	VersionsTested string    `json:"versions_tested,omitempty"`
	RepositoryURL  string    `json:"repository_url"`
	License        string    `json:"license,omitempty"`
	Tag            string    `json:"tag,omitempty"`
	Icon           string    `json:"icon,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// QueueItem is the unit carried across the hand-off queue from the intake
// handler to the notification dispatcher. Produced by intake, owned by the
// queue until the dispatcher consumes it, then discarded.
type QueueItem struct {
	ChannelID      string `json:"channel_id"`
	Text           string `json:"text"`
	Record         Record `json:"record"`
	CorrelationKey string `json:"correlation_key"`
}

// PostedNotification correlates an externally posted interactive message to
// the pending submission it represents. Created by the dispatcher after a
// successful post, consulted by the resolution handler, removed on resolution.
type PostedNotification struct {
	CorrelationKey string    `json:"correlation_key"`
	MessageID      string    `json:"message_id"`
	ChannelID      string    `json:"channel_id"`
	Record         Record    `json:"record"`
	PostedAt       time.Time `json:"posted_at"`
}

// Action is a reviewer's choice on a posted notification.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Outcome is the terminal state a resolution attempt reaches.
// A submission moves Created -> Queued -> Posted -> {Approved|Rejected|Stale};
// Stale is reached when the correlation key is no longer tracked and mutates
// no store.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
	OutcomeStale    Outcome = "stale"
)

// RenderReviewText builds the review-channel message body for a submission.
func RenderReviewText(r Record) string {
	return fmt.Sprintf(
		"A new package, **%s**, has been submitted for approval!\n"+
			"author: `%s`\n"+
			"project type: `%s`\n"+
			"current version: `%s`\n"+
			"repository url: %s",
		r.Name, r.Author, r.ProjectType, r.CurrentVersion, r.RepositoryURL,
	)
}
