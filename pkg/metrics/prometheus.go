package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	UpdatesApplied  prometheus.Counter
	UpdatesRejected *prometheus.CounterVec
	UpdatesPruned   prometheus.Counter
	ApplyTime       prometheus.Histogram
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpdatesApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_applied_total",
			Help:      "The total number of updates applied to a roster",
		}),
		UpdatesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_rejected_total",
			Help:      "The total number of rejected updates",
		}, []string{"kind"}),
		UpdatesPruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_pruned_total",
			Help:      "The total number of updates dropped from the recent history",
		}),
		ApplyTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_apply_seconds",
			Help:      "Time taken to apply and persist an update",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
