package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "block_aggregator",
		Subsystem: "ingester",
		Name:      "fetch_total",
		Help:      "Count of latest-block requests to providers.",
	}, []string{"provider", "currency", "status"})

	ingestFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "block_aggregator",
		Subsystem: "ingester",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of a latest-block request to a provider.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "currency", "status"})

	ingestStoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "block_aggregator",
		Subsystem: "ingester",
		Name:      "stored_blocks_total",
		Help:      "Count of new blocks written to storage.",
	}, []string{"provider"})

	ingestCycleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "block_aggregator",
		Subsystem: "ingester",
		Name:      "cycle_total",
		Help:      "Count of ingestion cycles.",
	}, []string{"status"})

	ingestCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "block_aggregator",
		Subsystem: "ingester",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a full providers x currencies ingestion cycle.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"status"})
)

// Ingester - метрики цикла загрузки блоков
type Ingester struct{}

func NewIngester() *Ingester {
	return &Ingester{}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (Ingester) ObserveFetch(provider, currency string, err error, started time.Time) {
	s := status(err)
	ingestFetchTotal.WithLabelValues(provider, currency, s).Inc()
	ingestFetchDuration.WithLabelValues(provider, currency, s).Observe(time.Since(started).Seconds())
}

func (Ingester) ObserveStored(provider string) {
	ingestStoredTotal.WithLabelValues(provider).Inc()
}

func (Ingester) ObserveCycle(err error, started time.Time) {
	s := status(err)
	ingestCycleTotal.WithLabelValues(s).Inc()
	ingestCycleDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
}
