package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "datatables"

const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

type tableMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	filtered *prometheus.GaugeVec
}

// newTableMetrics registers the request metrics on reg. A nil reg creates
// unregistered collectors.
func newTableMetrics(reg prometheus.Registerer) *tableMetrics {
	factory := promauto.With(reg)
	return &tableMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "Total number of grid requests",
			},
			[]string{"table", "protocol", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "Grid request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"table"},
		),
		filtered: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "records_filtered",
				Help:      "Filtered record count of the last grid request",
			},
			[]string{"table"},
		),
	}
}

func newRowsGauge(reg prometheus.Registerer) *prometheus.GaugeVec {
	return promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "table_rows",
			Help:      "Row count of a grid's base table",
		},
		[]string{"table"},
	)
}
