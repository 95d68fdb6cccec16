package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the query instrumentation of the dashboard
type Metrics struct {
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	RowsReturned  *prometheus.GaugeVec
}

// NewMetrics creates the metrics and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	queriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aisec_dash_queries_total",
			Help: "Total number of view queries by outcome",
		},
		[]string{"view", "outcome"},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aisec_dash_query_duration_seconds",
			Help:    "Time taken to filter, sort and aggregate a view",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"view"},
	)

	rowsReturned := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aisec_dash_rows_returned",
			Help: "Number of rows returned by the last query of a view",
		},
		[]string{"view"},
	)

	reg.MustRegister(queriesTotal, queryDuration, rowsReturned)

	return &Metrics{
		QueriesTotal:  queriesTotal,
		QueryDuration: queryDuration,
		RowsReturned:  rowsReturned,
	}
}

// WriteText dumps every metric family of g in the Prometheus text format
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
