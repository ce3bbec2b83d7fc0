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

	// 订单指标
	orderTransitionsTotal *prometheus.CounterVec
	ordersPlacedTotal     prometheus.Counter

	// 通知指标
	notificationsTotal *prometheus.CounterVec
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		orderTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_status_transitions_total",
				Help: "Total number of order status transitions",
			},
			[]string{"from", "to"},
		),

		ordersPlacedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_placed_total",
				Help: "Total number of orders placed",
			},
		),

		notificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Total number of notification emails attempted",
			},
			[]string{"kind", "outcome"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordOrderTransition 记录订单状态流转
func (m *MetricsCollector) RecordOrderTransition(from, to string) {
	m.orderTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordOrderPlaced 记录下单
func (m *MetricsCollector) RecordOrderPlaced() {
	m.ordersPlacedTotal.Inc()
}

// RecordNotification 记录通知发送结果
func (m *MetricsCollector) RecordNotification(kind string, sent bool) {
	outcome := "sent"
	if !sent {
		outcome = "failed"
	}
	m.notificationsTotal.WithLabelValues(kind, outcome).Inc()
}

var (
	globalCollector *MetricsCollector
	collectorOnce   sync.Once
)

// GetGlobalCollector 获取全局指标收集器
func GetGlobalCollector() *MetricsCollector {
	collectorOnce.Do(func() {
		globalCollector = NewMetricsCollector()
	})
	return globalCollector
}
