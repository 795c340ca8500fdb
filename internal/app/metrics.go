package app

import (
	"errors"
	"strconv"
	"time"

	"github.com/haierkeys/note-share-service/internal/service"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 指标在进程内只注册一次，配置热重载重建 App 时复用
var (
	noteOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "note_operations_total",
		Help: "Note operations by operation and result.",
	}, []string{"op", "result"})

	noteAppendRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "note_append_retries_total",
		Help: "Append retries caused by version conflicts.",
	})

	writeQueueWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "note_write_queue_wait_seconds",
		Help:    "Time a note write spent queued before running.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Metrics 上报服务与 HTTP 指标
type Metrics struct{}

// NewMetrics 创建指标上报器
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveNoteOperation 记录笔记操作结果，result 为 ok 或错误码
func (m *Metrics) ObserveNoteOperation(op string, err error) {
	noteOperations.WithLabelValues(op, resultLabel(err)).Inc()
}

// ObserveAppendRetry 记录一次版本冲突重试
func (m *Metrics) ObserveAppendRetry() {
	noteAppendRetries.Inc()
}

// ObserveWriteQueueWait 记录写队列排队耗时
func (m *Metrics) ObserveWriteQueueWait(d time.Duration) {
	writeQueueWait.Observe(d.Seconds())
}

// ObserveHTTPRequest 记录 HTTP 请求，path 为路由模式
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var c *code.Code
	if errors.As(err, &c) {
		return strconv.Itoa(c.Code())
	}
	return "error"
}

var _ service.Metrics = (*Metrics)(nil)
