// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_received_total",
			Help: "Total number of submission requests received at intake",
		},
		[]string{"status"},
	)

	NotificationsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_posted_total",
			Help: "Total number of review notifications posted to the collaborator",
		},
		[]string{"status"},
	)

	ResolutionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolutions_processed_total",
			Help: "Total number of resolution callbacks processed by outcome",
		},
		[]string{"outcome"},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "handoff_queue_depth",
			Help: "Current number of items waiting in the hand-off queue",
		},
	)

	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "notification_dispatch_duration_seconds",
			Help: "Duration of posting a single review notification",
		},
	)
)
