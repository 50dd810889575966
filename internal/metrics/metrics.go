package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesHandled counts Telegram updates by kind (command, callback, photo, document, text).
	UpdatesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fantamatto_updates_handled_total",
			Help: "The total number of Telegram updates dispatched.",
		},
		[]string{"kind"},
	)

	// UpdatesFailed counts updates whose handler returned an error or panicked.
	UpdatesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fantamatto_updates_failed_total",
			Help: "The total number of Telegram updates that failed.",
		},
		[]string{"kind"},
	)

	SightingsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fantamatto_sightings_recorded_total",
			Help: "The total number of sightings recorded.",
		},
	)

	SightingsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fantamatto_sightings_deleted_total",
			Help: "The total number of sightings deleted by the admin.",
		},
	)

	CatalogReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fantamatto_catalog_reloads_total",
			Help: "The total number of catalog reloads.",
		},
	)

	// BroadcastMessages counts per-recipient broadcast outcomes: sent, unreachable, failed.
	BroadcastMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fantamatto_broadcast_messages_total",
			Help: "Broadcast deliveries by outcome.",
		},
		[]string{"outcome"},
	)

	UsersUnregistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fantamatto_users_unregistered_total",
			Help: "Users unregistered because they could no longer be reached.",
		},
	)

	BroadcastDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fantamatto_broadcast_duration_seconds",
			Help:    "A histogram of full broadcast durations.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	FeedSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fantamatto_feed_subscribers",
			Help: "The number of live feed subscribers.",
		},
	)
)

const (
	OutcomeSent        = "sent"
	OutcomeUnreachable = "unreachable"
	OutcomeFailed      = "failed"
)
