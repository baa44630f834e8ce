// internal/submission/intake/models.go
package intake

import (
	"time"

	"package-directory/internal/submission"
)

// Input is the submission payload presented at the web-facing intake
// boundary.
type Input struct {
	Name           string `json:"name"`
	ProjectType    string `json:"project_type"`
	CurrentVersion string `json:"current_version"`
	VersionsTested string `json:"versions_tested,omitempty"`
	RepositoryURL  string `json:"repository_url"`
	License        string `json:"license,omitempty"`
	Tag            string `json:"tag,omitempty"`
	Icon           string `json:"icon,omitempty"`
}

// Output acknowledges a persisted submission. It reports that the record
// entered review, not the eventual moderation outcome.
type Output struct {
	CorrelationKey        string `json:"correlation_key"`
	Name                  string `json:"name"`
	Status                string `json:"status"`
	NotificationScheduled bool   `json:"notification_scheduled"`
	SubmittedAt           string `json:"submitted_at"` // ISO 8601
}

func (in *Input) toRecord(authorID string, now time.Time) submission.Record {
	return submission.Record{
		Name:           in.Name,
		Author:         authorID,
		ProjectType:    in.ProjectType,
		CurrentVersion: in.CurrentVersion,
		VersionsTested: in.VersionsTested,
		RepositoryURL:  in.RepositoryURL,
		License:        in.License,
		Tag:            in.Tag,
		Icon:           in.Icon,
		CreatedAt:      now,
	}
}
