package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/atikulmunna/loglens/internal/aggregator"
	"github.com/atikulmunna/loglens/internal/report"
)

// Metrics exposes a report as Prometheus gauges.
type Metrics struct {
	LinesParsed      prometheus.Gauge
	LinesSkipped     prometheus.Gauge
	RequestsByIP     *prometheus.GaugeVec
	RequestsByPath   *prometheus.GaugeVec
	FailedAuthByIP   *prometheus.GaugeVec
	SuspiciousSource prometheus.Gauge

	logger *zap.Logger
}

// NewMetrics registers the report gauges on reg. A nil reg gets a private registry.
func NewMetrics(reg prometheus.Registerer, logger *zap.Logger) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Metrics{
		LinesParsed: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "loglens_lines_parsed",
			Help: "Number of log lines counted in the report.",
		}),
		LinesSkipped: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "loglens_lines_skipped",
			Help: "Number of malformed log lines skipped.",
		}),
		RequestsByIP: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "loglens_requests",
			Help: "Requests per source address.",
		}, []string{"address"}),
		RequestsByPath: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "loglens_endpoint_requests",
			Help: "Requests per endpoint.",
		}, []string{"endpoint"}),
		FailedAuthByIP: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "loglens_failed_auth",
			Help: "Failed authentication attempts per flagged source address.",
		}, []string{"address"}),
		SuspiciousSource: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "loglens_suspicious_sources",
			Help: "Number of addresses above the failed authentication threshold.",
		}),
		logger: logger,
	}
}

// Observe replaces the gauge values with those of rep. Entries whose key is
// not a valid label value are left out and logged.
func (m *Metrics) Observe(rep report.Report) {
	m.LinesParsed.Set(float64(rep.Parsed))
	m.LinesSkipped.Set(float64(rep.Skipped))

	m.setAll(m.RequestsByIP, rep.Requests)
	m.setAll(m.RequestsByPath, rep.Endpoints)
	m.setAll(m.FailedAuthByIP, rep.Suspicious)
	m.SuspiciousSource.Set(float64(len(rep.Suspicious)))
}

func (m *Metrics) setAll(vec *prometheus.GaugeVec, entries []aggregator.Entry) {
	vec.Reset()
	for _, e := range entries {
		g, err := vec.GetMetricWithLabelValues(e.Key)
		if err != nil {
			m.logger.Warn("skipping metric series", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		g.Set(float64(e.Count))
	}
}
