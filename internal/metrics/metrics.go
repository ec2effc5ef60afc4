// Package metrics 集中定义 Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

var (
	// UpstreamRequestsTotal 按上游与结果（ok / error）计数
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of outbound requests to content upstreams",
		},
		[]string{"source", "result"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Outbound request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_aggregations_total",
			Help: "Total number of content aggregations by result and article source",
		},
		[]string{"result", "article_source"},
	)

	// UpstreamUp 最近一次探活结果，1 为可用
	UpstreamUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upstream_up",
			Help: "Whether the upstream answered the last probe (1) or not (0)",
		},
		[]string{"source"},
	)
)

// RecordUpstream 记录一次上游调用
func RecordUpstream(source string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(source, result).Inc()
	UpstreamRequestDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

func RecordAggregation(articleSource string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	AggregationsTotal.WithLabelValues(result, articleSource).Inc()
}

func SetUpstreamUp(source string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	UpstreamUp.WithLabelValues(source).Set(v)
}
