package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Remote backend metrics
var (
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitroom_remote_requests_total",
			Help: "Total number of requests to the playlist backend",
		},
		[]string{"operation", "result"}, // result: ok, failed, unsuccessful
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waitroom_remote_request_duration_seconds",
			Help:    "Playlist backend request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	RemoteOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waitroom_remote_online",
			Help: "1 when the most recent tracked backend call succeeded, 0 otherwise",
		},
	)
)

// Reconciliation metrics
var (
	PullsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitroom_pulls_total",
			Help: "Total number of periodic pulls by outcome",
		},
		[]string{"outcome"},
	)

	PushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitroom_pushes_total",
			Help: "Total number of local mutations pushed, by destination",
		},
		[]string{"mode"}, // remote, local_only
	)

	PlaylistItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waitroom_playlist_items",
			Help: "Number of items in the current playlist",
		},
		[]string{"kind"}, // playable, ticker
	)
)
