package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 数据库指标
	dbConnectionsActive prometheus.Gauge
	dbConnectionsIdle   prometheus.Gauge

	// 缓存指标
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	// 审核指标
	moderationDecisions   *prometheus.CounterVec
	moderationToxicity    prometheus.Histogram
	moderationResolutions *prometheus.CounterVec
	notificationsTotal    *prometheus.CounterVec
}

// NewMetricsCollector 创建指标收集器，所有指标注册到 reg
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)
	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		dbConnectionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_active",
				Help: "Number of active database connections",
			},
		),

		dbConnectionsIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_idle",
				Help: "Number of idle database connections",
			},
		),

		cacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_prefix"},
		),

		cacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_prefix"},
		),

		moderationDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_decisions_total",
				Help: "Automated moderation decisions by content type and action",
			},
			[]string{"content_type", "action"},
		),

		moderationToxicity: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "moderation_toxicity_score",
				Help:    "Toxicity score assigned by the analyzer",
				Buckets: []float64{0.1, 0.3, 0.6, 0.8, 0.9, 1.0},
			},
		),

		moderationResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_resolutions_total",
				Help: "Records resolved by moderators",
			},
			[]string{"status", "mode"},
		),

		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_notifications_total",
				Help: "Author notifications by delivery result",
			},
			[]string{"result"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
}

// RecordCacheOperation 记录缓存命中情况
func (m *MetricsCollector) RecordCacheOperation(keyPrefix string, hit bool) {
	if hit {
		m.cacheHitsTotal.WithLabelValues(keyPrefix).Inc()
	} else {
		m.cacheMissesTotal.WithLabelValues(keyPrefix).Inc()
	}
}

// UpdateDBConnections 更新数据库连接指标
func (m *MetricsCollector) UpdateDBConnections(active, idle int) {
	m.dbConnectionsActive.Set(float64(active))
	m.dbConnectionsIdle.Set(float64(idle))
}

// RecordDecision 记录一次自动审核结果
func (m *MetricsCollector) RecordDecision(contentType, action string, toxicity float64) {
	m.moderationDecisions.WithLabelValues(contentType, action).Inc()
	m.moderationToxicity.Observe(toxicity)
}

// RecordResolution 记录人工审核，mode 为 single 或 bulk
func (m *MetricsCollector) RecordResolution(status, mode string, count int) {
	m.moderationResolutions.WithLabelValues(status, mode).Add(float64(count))
}

// RecordNotification 记录作者通知投递结果
func (m *MetricsCollector) RecordNotification(result string) {
	m.notificationsTotal.WithLabelValues(result).Inc()
}

// MetricsMiddleware 指标中间件助手
type MetricsMiddleware struct {
	collector *MetricsCollector
}

// NewMetricsMiddleware 创建指标中间件
func NewMetricsMiddleware(collector *MetricsCollector) *MetricsMiddleware {
	return &MetricsMiddleware{collector: collector}
}

// TrackRequest 跟踪请求
func (m *MetricsMiddleware) TrackRequest(method, endpoint string) func(status int, responseSize int) {
	start := time.Now()

	return func(status int, responseSize int) {
		m.collector.RecordHTTPRequest(method, endpoint, getStatusCategory(status), time.Since(start), responseSize)
	}
}

// getStatusCategory 获取状态分类
func getStatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector 获取全局指标收集器，注册到默认 registry
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}
