// Package metrics provides Prometheus metrics for the nomic service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nomic"

var (
	// Bus / classification metrics.
	busMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bus_messages_total",
		Help:      "Webhook bus messages received.",
	})
	eventsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_classified_total",
		Help:      "Events recognized by the classifier, by kind.",
	}, []string{"kind"})
	eventsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_skipped_total",
		Help:      "Bus messages that did not map to a known event.",
	})
	eventsMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_malformed_total",
		Help:      "Bus messages dropped because decoding failed.",
	})

	// Roster metrics.
	rosterRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_requests_total",
		Help:      "Roster resolutions attempted.",
	})
	rosterErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_errors_total",
		Help:      "Roster resolutions that failed.",
	})
	rosterPages = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "roster_pages_per_resolve",
		Help:      "Fork pages fetched per roster resolution.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13},
	})

	// Tally metrics.
	votesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_recorded_total",
		Help:      "Votes written to the tally store.",
	})
	tallyErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tally_errors_total",
		Help:      "Tally store writes that failed.",
	})

	// Scoreboard metrics.
	scoreboardFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scoreboard_fetch_errors_total",
		Help:      "Scoreboard document fetches that failed.",
	})
	scoreboardParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scoreboard_parse_errors_total",
		Help:      "Scoreboard documents rejected as corrupt.",
	})

	// Announcement metrics.
	announcements = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "announcements_total",
		Help:      "Announcements sent to the channel.",
	})
	announceErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "announce_errors_total",
		Help:      "Announcements that failed to send.",
	})
)

// RecordBusMessage increments the bus message counter.
func RecordBusMessage() { busMessages.Inc() }

// RecordEventClassified increments the classified counter for an event kind.
func RecordEventClassified(kind string) { eventsClassified.WithLabelValues(kind).Inc() }

// RecordEventSkipped increments the skipped message counter.
func RecordEventSkipped() { eventsSkipped.Inc() }

// RecordEventMalformed increments the malformed message counter.
func RecordEventMalformed() { eventsMalformed.Inc() }

// RecordRosterRequest increments the roster resolution counter.
func RecordRosterRequest() { rosterRequests.Inc() }

// RecordRosterError increments the roster failure counter.
func RecordRosterError() { rosterErrors.Inc() }

// RecordRosterPages observes the number of pages fetched for one resolution.
func RecordRosterPages(n int) { rosterPages.Observe(float64(n)) }

// RecordVote increments the recorded vote counter.
func RecordVote() { votesRecorded.Inc() }

// RecordTallyError increments the tally write failure counter.
func RecordTallyError() { tallyErrors.Inc() }

// RecordScoreboardFetchError increments the scoreboard fetch failure counter.
func RecordScoreboardFetchError() { scoreboardFetchErrors.Inc() }

// RecordScoreboardParseError increments the scoreboard corruption counter.
func RecordScoreboardParseError() { scoreboardParseErrors.Inc() }

// RecordAnnouncement increments the announcement counter.
func RecordAnnouncement() { announcements.Inc() }

// RecordAnnounceError increments the announcement failure counter.
func RecordAnnounceError() { announceErrors.Inc() }
