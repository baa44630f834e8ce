// internal/notify/discord/interactions_test.go
package discord

import (
	"testing"

	"package-directory/internal/submission"
	"package-directory/internal/submission/resolution"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Custom ID Round Trips
// ==========================

func TestParseReviewCustomID(t *testing.T) {
	key := "0d3adb33-f000-4a1b-9c55-1234567890ab"

	action, parsedKey, ok := parseReviewCustomID(approveCustomID(key))
	assert.True(t, ok)
	assert.Equal(t, submission.ActionApprove, action)
	assert.Equal(t, key, parsedKey)

	action, parsedKey, ok = parseReviewCustomID(rejectCustomID(key))
	assert.True(t, ok)
	assert.Equal(t, submission.ActionReject, action)
	assert.Equal(t, key, parsedKey)
}

func TestParseReviewCustomID_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		customID string
	}{
		{"other feature prefix", "my_panel_page:user:2"},
		{"unknown action", "review:escalate:key-1"},
		{"missing key", "review:approve"},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, ok := parseReviewCustomID(tc.customID)
			assert.False(t, ok)
		})
	}
}

// ==========================
// Terminal Text
// ==========================

func TestTerminalText(t *testing.T) {
	record := submission.Record{Name: "terrain-tools"}

	approved := terminalText(&resolution.Result{Outcome: submission.OutcomeApproved, Record: record}, "reviewer-7")
	assert.Contains(t, approved, "terrain-tools")
	assert.Contains(t, approved, "approved")
	assert.Contains(t, approved, "<@reviewer-7>")

	rejected := terminalText(&resolution.Result{Outcome: submission.OutcomeRejected, Record: record}, "reviewer-7")
	assert.Contains(t, rejected, "rejected")

	stale := terminalText(&resolution.Result{Outcome: submission.OutcomeStale}, "reviewer-7")
	assert.Contains(t, stale, "already resolved")
}
