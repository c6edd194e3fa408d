// Package metrics exposes Prometheus instruments for the ledger. Every
// observer is a no-op until Init has run, so packages can record metrics
// unconditionally and tests need no registry.
package metrics

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "sparkletidy_"

	resultSuccess = "success"
	resultError   = "error"
)

// instruments is published once by Init and read lock-free by observers.
type instruments struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec

	reportGenerateTotal   *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec
	reportExportTotal     *prometheus.CounterVec
	reportExportLatency   *prometheus.HistogramVec

	mockTransactionsTotal prometheus.Counter
}

var (
	registerOnce sync.Once
	active       atomic.Pointer[instruments]
)

// Init registers the instruments with the default registry. Safe to call
// concurrently with the observers.
func Init() {
	registerOnce.Do(func() {
		m := &instruments{}
		m.httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		)
		m.httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)

		m.storeOperations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_operations_total",
				Help: "Total transaction store operations by operation and result",
			},
			[]string{"operation", "result"},
		)
		m.storeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "store_operation_latency_seconds",
				Help:    "Transaction store operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		)

		m.reportGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total financial report generations by result",
			},
			[]string{"result"},
		)
		m.reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Financial report generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		m.reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		m.reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		m.mockTransactionsTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "mock_transactions_generated_total",
				Help: "Total mock transactions inserted",
			},
		)

		prometheus.MustRegister(
			m.httpRequests,
			m.httpLatency,
			m.storeOperations,
			m.storeLatency,
			m.reportGenerateTotal,
			m.reportGenerateLatency,
			m.reportExportTotal,
			m.reportExportLatency,
			m.mockTransactionsTotal,
		)
		active.Store(m)
	})
}

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// ObserveHTTPRequest records one served request. route is the gin route
// template, not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m := active.Load()
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveStoreOperation records a transaction store call.
func ObserveStoreOperation(operation string, err error, duration time.Duration) {
	m := active.Load()
	if m == nil {
		return
	}
	m.storeOperations.WithLabelValues(operation, Result(err)).Inc()
	m.storeLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveReportGenerate records report generation latency and result.
func ObserveReportGenerate(err error, duration time.Duration) {
	m := active.Load()
	if m == nil {
		return
	}
	result := Result(err)
	m.reportGenerateTotal.WithLabelValues(result).Inc()
	m.reportGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveReportExport records export latency and result per format.
func ObserveReportExport(format string, err error, duration time.Duration) {
	m := active.Load()
	if m == nil {
		return
	}
	if format == "" {
		format = "unknown"
	}
	result := Result(err)
	m.reportExportTotal.WithLabelValues(format, result).Inc()
	m.reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
}

// AddMockTransactions counts inserted mock transactions.
func AddMockTransactions(n int) {
	if m := active.Load(); m != nil && n > 0 {
		m.mockTransactionsTotal.Add(float64(n))
	}
}
