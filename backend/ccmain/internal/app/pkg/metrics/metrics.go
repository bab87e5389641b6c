package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics 服务监控指标
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LedgerConflictsTotal *prometheus.CounterVec
	LedgerExhaustedTotal *prometheus.CounterVec

	AlertsPublishedTotal *prometheus.CounterVec
	AlertsFailedTotal    *prometheus.CounterVec
}

// New 创建并注册所有指标
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		),
		LedgerConflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_occ_conflicts_total",
				Help: "Total number of transaction bodies re-executed after an OCC conflict",
			},
			[]string{"driver"},
		),
		LedgerExhaustedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_occ_exhausted_total",
				Help: "Total number of transactions aborted after exhausting OCC retries",
			},
			[]string{"driver"},
		),
		AlertsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alerts_published_total",
				Help: "Total number of temperature alerts handed to the notification channel",
			},
			[]string{"mode"},
		),
		AlertsFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alerts_failed_total",
				Help: "Total number of temperature alerts that failed to publish",
			},
			[]string{"mode"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.HTTPRequestsTotal,
			m.HTTPRequestDuration,
			m.LedgerConflictsTotal,
			m.LedgerExhaustedTotal,
			m.AlertsPublishedTotal,
			m.AlertsFailedTotal,
		)
	}
	return m
}

// NewNop 创建不注册的指标实例（测试用）
func NewNop() *Metrics {
	return New(nil)
}
