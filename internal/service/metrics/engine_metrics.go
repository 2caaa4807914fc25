package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	StrategyLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matchcast",
			Subsystem: "engine",
			Name:      "strategy_latency_seconds",
			Help:      "Latency of individual scoring strategies",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"strategy"},
	)

	StrategyDegraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchcast",
			Subsystem: "engine",
			Name:      "strategy_degraded_total",
			Help:      "Neutral fallbacks by strategy",
		},
		[]string{"strategy"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(StrategyLatency, StrategyDegraded)
	})
}
