package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Signature request outcomes.
const (
	ResultSent         = "sent"
	ResultRejected     = "rejected"
	ResultNotifyFailed = "notify_failed"
)

var (
	activitiesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "volunteerhub",
		Subsystem: "ledger",
		Name:      "activities_created_total",
		Help:      "Number of activities appended to a ledger.",
	})
	activitiesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "volunteerhub",
		Subsystem: "ledger",
		Name:      "activities_deleted_total",
		Help:      "Number of activities removed from a ledger.",
	})
	lastActivityGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "volunteerhub",
		Subsystem: "ledger",
		Name:      "last_activity_created_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity created.",
	})
	idBackfills = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "volunteerhub",
		Subsystem: "ledger",
		Name:      "id_backfills_total",
		Help:      "Number of collections rewritten to assign ids to legacy activities.",
	})
	signatureRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "volunteerhub",
		Subsystem: "signature",
		Name:      "requests_total",
		Help:      "Signature requests by outcome.",
	}, []string{"result"})
	signaturesConfirmed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "volunteerhub",
		Subsystem: "signature",
		Name:      "confirmed_total",
		Help:      "Number of activities confirmed by a supervisor.",
	})
	leaderboardCompute = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "volunteerhub",
		Subsystem: "leaderboard",
		Name:      "compute_duration_seconds",
		Help:      "Time taken to rebuild the leaderboard from every collection.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		activitiesCreated,
		activitiesDeleted,
		lastActivityGauge,
		idBackfills,
		signatureRequests,
		signaturesConfirmed,
		leaderboardCompute,
	)
}

// RecordActivityCreated counts a new activity and moves the creation watermark.
func RecordActivityCreated(ts time.Time) {
	activitiesCreated.Inc()
	if ts.IsZero() {
		return
	}
	lastActivityGauge.Set(float64(ts.Unix()))
}

// RecordActivityDeleted counts a removed activity.
func RecordActivityDeleted() {
	activitiesDeleted.Inc()
}

// RecordIDBackfill counts a collection whose legacy activities received ids.
func RecordIDBackfill() {
	idBackfills.Inc()
}

// RecordSignatureRequest counts a signature request by outcome.
func RecordSignatureRequest(result string) {
	signatureRequests.WithLabelValues(result).Inc()
}

// RecordSignatureConfirmed counts a successful confirmation.
func RecordSignatureConfirmed() {
	signaturesConfirmed.Inc()
}

// ObserveLeaderboardCompute records how long a full leaderboard scan took.
func ObserveLeaderboardCompute(d time.Duration) {
	leaderboardCompute.Observe(d.Seconds())
}
