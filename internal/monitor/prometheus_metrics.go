package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

func PrometheusMetrics() map[MetricTag]prometheus.Collector {
	metrics := make(map[MetricTag]prometheus.Collector)

	for tag, summaryVec := range SummaryVecMetrics {
		metrics[tag] = summaryVec
	}

	for tag, histogramVec := range HistogramVecMetrics {
		metrics[tag] = histogramVec
	}

	for tag, counterVec := range CounterVecMetrics {
		metrics[tag] = counterVec
	}

	return metrics
}

var SummaryVecMetrics = map[MetricTag]*prometheus.SummaryVec{
	HTTPRequestDurationTag: prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "wp", Subsystem: "http", Name: string(HTTPRequestDurationTag),
		Help: "HTTP requests durations, sliding window = 10m",
	},
		[]string{"status", "route", "method"},
	),
	SuccessfulQueryDurationTag: prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "wp", Subsystem: "db", Name: string(SuccessfulQueryDurationTag),
		Help: "Successful DB query durations",
	},
		[]string{"query_type"},
	),
	FailureQueryDurationTag: prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "wp", Subsystem: "db", Name: string(FailureQueryDurationTag),
		Help: "Failure DB query durations",
	},
		[]string{"query_type"},
	),
	BalanceAggregationDurationTag: prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "wp", Subsystem: "business", Name: string(BalanceAggregationDurationTag),
		Help: "Durations of the wallet balance aggregation fan-out",
	},
		[]string{"outcome"},
	),
}

var HistogramVecMetrics = map[MetricTag]*prometheus.HistogramVec{
	BalanceAggregationWalletsTag: prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wp", Subsystem: "business", Name: string(BalanceAggregationWalletsTag),
		Help:    "A histogram of how many wallets each balance aggregation spans",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	},
		[]string{"outcome"},
	),
}

var CounterVecMetrics = map[MetricTag]*prometheus.CounterVec{
	WalletsCounterTag: prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wp", Subsystem: "business", Name: string(WalletsCounterTag),
		Help: "A counter of provisioned wallets",
	},
		[]string{"asset"},
	),
	TransfersCounterTag: prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wp", Subsystem: "business", Name: string(TransfersCounterTag),
		Help: "A counter of submitted transfers",
	},
		[]string{"asset"},
	),
}
