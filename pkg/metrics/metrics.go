// Package metrics 提供基于Prometheus的指标收集框架，覆盖 HTTP 层和订单核心。
//
// Counter 只增不减（请求数、订单数），Gauge 可增可减（并发请求数），
// Histogram 记录延迟分布。所有指标注册到 New 传入的 Registerer 上，
// 测试用独立的 registry，服务在 /metrics 暴露默认 registry。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 订单操作的结果标签
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // 4xx 业务失败
	OutcomeError    = "error"    // 5xx
)

// Metrics 持有所有采集器。nil *Metrics 可以直接使用，什么都不记录。
type Metrics struct {
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	OrdersCreatedTotal    prometheus.Counter
	OrdersFailedTotal     *prometheus.CounterVec
	OrderCreationDuration prometheus.Histogram
	OrdersInProgress      prometheus.Gauge

	OrderStatusChangesTotal *prometheus.CounterVec
	OrdersDeletedTotal      prometheus.Counter
	OrderIDCollisionsTotal  prometheus.Counter
	StockRestoredTotal      prometheus.Counter

	CacheRequestsTotal *prometheus.CounterVec
}

// New 在 reg 上注册采集器
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInProgress: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "HTTP requests currently being served.",
			},
		),
		OrdersCreatedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Orders committed.",
			},
		),
		OrdersFailedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_failed_total",
				Help: "Order creations that rolled back, by outcome.",
			},
			[]string{"outcome"},
		),
		OrderCreationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "order_creation_duration_seconds",
				Help:    "Order creation latency in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		),
		OrdersInProgress: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "orders_in_progress",
				Help: "Order creations currently running.",
			},
		),
		OrderStatusChangesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_status_changes_total",
				Help: "Order status updates by target status.",
			},
			[]string{"status"},
		),
		OrdersDeletedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_deleted_total",
				Help: "Orders deleted with stock restored.",
			},
		),
		OrderIDCollisionsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "order_id_collisions_total",
				Help: "Order id candidates rejected by the unique constraint.",
			},
		),
		StockRestoredTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "stock_restored_lines_total",
				Help: "Order lines whose quantity was returned to stock.",
			},
		),
		CacheRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_cache_requests_total",
				Help: "Order cache lookups by result.",
			},
			[]string{"result"}, // hit | miss | error
		),
	}
}

// ObserveHTTPRequest 记录一个已完成的请求
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// TrackInFlight 并发请求数加一，返回对应的减一函数
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.HTTPRequestsInProgress.Inc()
	return m.HTTPRequestsInProgress.Dec
}

// StartOrderCreation 标记一次下单开始，返回的函数记录结果和耗时
func (m *Metrics) StartOrderCreation() func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.OrdersInProgress.Inc()
	return func(outcome string) {
		m.OrdersInProgress.Dec()
		m.OrderCreationDuration.Observe(time.Since(start).Seconds())
		if outcome == OutcomeSuccess {
			m.OrdersCreatedTotal.Inc()
			return
		}
		m.OrdersFailedTotal.WithLabelValues(outcome).Inc()
	}
}

// IncOrderIDCollision 订单号候选冲突计数
func (m *Metrics) IncOrderIDCollision() {
	if m == nil {
		return
	}
	m.OrderIDCollisionsTotal.Inc()
}

// IncStatusChange 状态变更计数
func (m *Metrics) IncStatusChange(status string) {
	if m == nil {
		return
	}
	m.OrderStatusChangesTotal.WithLabelValues(status).Inc()
}

// IncOrderDeleted 删单计数，并累计归还库存的行数
func (m *Metrics) IncOrderDeleted(restoredLines int) {
	if m == nil {
		return
	}
	m.OrdersDeletedTotal.Inc()
	m.StockRestoredTotal.Add(float64(restoredLines))
}

// IncCache 缓存查询结果计数
func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}
