package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(transfersStartedTotal, transfersFinishedTotal, inviteOutcomesTotal, inviteLatencyMs, activeTransferJobs)
}

var transfersStartedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "transfers_started_total",
		Help: "Total number of transfer jobs started.",
	},
)

var transfersFinishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "transfers_finished_total",
		Help: "Total number of transfer jobs finished, labeled by terminal state.",
	},
	[]string{"state"}, // 'completed', 'cancelled', 'fatal'
)

var inviteOutcomesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "invite_outcomes_total",
		Help: "Per-member invite outcomes by class and reason.",
	},
	[]string{"class", "reason"},
)

var inviteLatencyMs = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "invite_latency_ms",
		Help:    "Invite RPC latency distribution in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
	},
)

var activeTransferJobs = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "active_transfer_jobs",
		Help: "Number of transfer jobs currently registered.",
	},
)

func IncTransferStarted() { transfersStartedTotal.Inc() }

func IncTransferFinished(state string) {
	transfersFinishedTotal.WithLabelValues(norm(state)).Inc()
}

func IncInviteOutcome(class, reason string) {
	if reason == "" {
		reason = "none"
	}
	inviteOutcomesTotal.WithLabelValues(norm(class), norm(reason)).Inc()
}

func ObserveInviteLatency(d time.Duration) {
	inviteLatencyMs.Observe(float64(d.Milliseconds()))
}

func SetActiveJobs(n int) { activeTransferJobs.Set(float64(n)) }

func norm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "unknown"
	}
	return s
}
