package syncqueue

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// queueDepth is only written by the shard's worker goroutine.
var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diarykeeper",
			Subsystem: "sync",
			Name:      "submissions_total",
			Help:      "Sync jobs accepted for execution.",
		},
		[]string{"shard"},
	)

	queueFullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diarykeeper",
			Subsystem: "sync",
			Name:      "queue_full_total",
			Help:      "Enqueue attempts that timed out on a full shard.",
		},
		[]string{"shard"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "diarykeeper",
			Subsystem: "sync",
			Name:      "run_duration_seconds",
			Help:      "Remote call latency per attempt.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shard"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "diarykeeper",
			Subsystem: "sync",
			Name:      "queue_depth",
			Help:      "Current depth of each shard queue.",
		},
		[]string{"shard"},
	)

	opsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diarykeeper",
			Subsystem: "sync",
			Name:      "ops_total",
			Help:      "Remote operations by kind and final result.",
		},
		[]string{"op", "result"},
	)

	outboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "diarykeeper",
			Subsystem: "sync",
			Name:      "outbox_pending",
			Help:      "Outbox items seen pending at the last redrive.",
		},
	)
)

const (
	resultSynced = "synced"
	resultFailed = "failed"
)

func labelFor(i int) string { return strconv.Itoa(i) }
