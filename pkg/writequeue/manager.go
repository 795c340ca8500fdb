// Package writequeue provides a per-key serialized write queue
// Package writequeue 提供按 Key 串行化的写队列
// Writes submitted under the same key (a note id) run one at a time in FIFO order,
// writes under different keys run concurrently.
// 同一 Key（笔记 ID）的写操作按 FIFO 顺序逐个执行，不同 Key 之间并发执行
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Error definitions
// 错误定义
var (
	// ErrWriteQueueFull returned when the key's queue is full
	// ErrWriteQueueFull 当写队列已满时返回
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed returned when write queue manager is closed
	// ErrWriteQueueClosed 当写队列管理器已关闭时返回
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout returned when write operation timeout
	// ErrWriteTimeout 当写操作超时时返回
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity per-key queue capacity, default 100
	// QueueCapacity 每个 Key 的队列容量，默认 100
	QueueCapacity int
	// WriteTimeout write operation timeout, default 30 seconds
	// WriteTimeout 写操作超时时间，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout idle cleanup timeout, default 10 minutes
	// IdleTimeout 空闲清理超时时间，默认 10 分钟
	IdleTimeout time.Duration
	// WaitObserver receives the time each op spent queued before running (optional)
	// WaitObserver 接收每个操作的排队耗时（可选）
	WaitObserver func(time.Duration)
}

// DefaultConfig returns default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

// writeOp write operation
// writeOp 写操作
type writeOp struct {
	ctx      context.Context
	fn       func(ctx context.Context) error
	result   chan error
	queuedAt time.Time
}

// keyWriteQueue single key write queue
// keyWriteQueue 单个 Key 的写队列
type keyWriteQueue struct {
	key      int64
	ch       chan writeOp
	lastUsed atomic.Int64
	workerWg sync.WaitGroup

	// mu guards closed against concurrent submits
	mu     sync.RWMutex
	closed bool

	// Used to notify worker to stop
	// 用于通知 worker 停止
	stopCh   chan struct{}
	stopOnce sync.Once
}

// submit enqueues op unless the queue is closed or full.
func (q *keyWriteQueue) submit(op writeOp) (accepted bool, err error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false, nil
	}
	select {
	case q.ch <- op:
		q.lastUsed.Store(time.Now().UnixNano())
		return true, nil
	default:
		return false, ErrWriteQueueFull
	}
}

// close marks the queue closed and stops its worker. Returns false when already closed.
func (q *keyWriteQueue) close() bool {
	q.mu.Lock()
	wasClosed := q.closed
	q.closed = true
	q.mu.Unlock()
	q.stopOnce.Do(func() { close(q.stopCh) })
	return !wasClosed
}

func (q *keyWriteQueue) isClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Manager manages write queues for all keys
// Manager 管理所有 Key 的写队列
type Manager struct {
	config Config
	logger *zap.Logger

	queues sync.Map // map[int64]*keyWriteQueue

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool

	executed atomic.Int64
	rejected atomic.Int64

	// Cleanup goroutine control
	// 清理 goroutine 控制
	cleanupWg   sync.WaitGroup
	cleanupDone chan struct{}
}

// New creates write queue manager
// New 创建写队列管理器
// cfg: configuration, if nil use default configuration
// cfg: 配置，如果为 nil 则使用默认配置
// logger: zap logger, if nil use nop logger
// logger: zap 日志器，如果为 nil 则使用 nop logger
func New(cfg *Config, logger *zap.Logger) *Manager {
	if cfg == nil {
		defaultCfg := DefaultConfig()
		cfg = &defaultCfg
	}

	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 100
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		config:      *cfg,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}

	// Start idle queue cleanup goroutine
	// 启动空闲队列清理 goroutine
	m.cleanupWg.Add(1)
	go m.cleanupIdleQueues()

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", cfg.QueueCapacity),
		zap.Duration("writeTimeout", cfg.WriteTimeout),
		zap.Duration("idleTimeout", cfg.IdleTimeout))

	return m
}

// Execute runs fn on the key's queue and waits for its result.
// fn receives a context that is cancelled once Execute has returned, so an op
// abandoned by timeout is skipped, or aborted if already running.
// Execute 在 Key 的队列中执行 fn 并等待结果；Execute 返回后 fn 的 context 会被取消
func (m *Manager) Execute(ctx context.Context, key int64, fn func(ctx context.Context) error) error {
	if m.IsClosed() {
		return ErrWriteQueueClosed
	}

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make(chan error, 1)
	op := writeOp{
		ctx:      opCtx,
		fn:       fn,
		result:   result,
		queuedAt: time.Now(),
	}

	// A queue closed by idle cleanup between lookup and submit is replaced.
	// 查找与提交之间被空闲清理关闭的队列会被替换
	for {
		queue := m.getOrCreateQueue(key)
		if queue == nil {
			return ErrWriteQueueClosed
		}
		accepted, err := queue.submit(op)
		if err != nil {
			m.rejected.Add(1)
			return err
		}
		if accepted {
			break
		}
		m.queues.CompareAndDelete(key, queue)
	}

	// Wait for result or timeout
	// 等待结果或超时
	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	case <-m.ctx.Done():
		return ErrWriteQueueClosed
	}
}

// getOrCreateQueue gets or creates the key's write queue (lazy loading)
// getOrCreateQueue 获取或创建写队列（懒加载）
func (m *Manager) getOrCreateQueue(key int64) *keyWriteQueue {
	if v, ok := m.queues.Load(key); ok {
		queue := v.(*keyWriteQueue)
		if !queue.isClosed() {
			return queue
		}
		m.queues.CompareAndDelete(key, queue)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil
	}

	queue := &keyWriteQueue{
		key:    key,
		ch:     make(chan writeOp, m.config.QueueCapacity),
		stopCh: make(chan struct{}),
	}
	queue.lastUsed.Store(time.Now().UnixNano())

	// Use LoadOrStore to ensure only one queue is created
	// 使用 LoadOrStore 确保只有一个队列被创建
	actual, loaded := m.queues.LoadOrStore(key, queue)
	if loaded {
		return actual.(*keyWriteQueue)
	}

	// Start worker goroutine (lazy loading)
	// 启动 worker goroutine（懒加载）
	queue.workerWg.Add(1)
	go m.worker(queue)

	m.logger.Debug("created write queue",
		zap.Int64("key", key),
		zap.Int("capacity", m.config.QueueCapacity))

	return queue
}

// worker processes a single key's queue
// worker 处理单个 Key 写队列的 goroutine
func (m *Manager) worker(queue *keyWriteQueue) {
	defer queue.workerWg.Done()
	defer m.logger.Debug("write queue worker stopped", zap.Int64("key", queue.key))

	for {
		select {
		case <-queue.stopCh:
			// Closed under lock, so nothing can be submitted after this drain
			// 关闭在锁内完成，排空后不会再有新的提交
			m.drainQueue(queue)
			return
		case op := <-queue.ch:
			m.executeOp(queue, op)
		}
	}
}

// executeOp executes single write operation
// executeOp 执行单个写操作
func (m *Manager) executeOp(queue *keyWriteQueue, op writeOp) {
	queue.lastUsed.Store(time.Now().UnixNano())

	if m.config.WaitObserver != nil {
		m.config.WaitObserver(time.Since(op.queuedAt))
	}

	// Check if context is cancelled
	// 检查 context 是否已取消
	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}

	err := op.fn(op.ctx)
	m.executed.Add(1)

	op.result <- err
}

// drainQueue drains remaining operations in queue
// drainQueue 排空队列中的剩余操作
func (m *Manager) drainQueue(queue *keyWriteQueue) {
	for {
		select {
		case op := <-queue.ch:
			m.executeOp(queue, op)
		default:
			return
		}
	}
}

// cleanupIdleQueues regularly cleans up idle queues
// cleanupIdleQueues 定期清理空闲队列
func (m *Manager) cleanupIdleQueues() {
	defer m.cleanupWg.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.cleanupDone:
			return
		case <-ticker.C:
			m.doCleanup()
		}
	}
}

// doCleanup performs one cleanup
// doCleanup 执行一次清理
func (m *Manager) doCleanup() {
	now := time.Now().UnixNano()
	idleThreshold := m.config.IdleTimeout.Nanoseconds()

	m.queues.Range(func(k, value interface{}) bool {
		key := k.(int64)
		queue := value.(*keyWriteQueue)

		lastUsed := queue.lastUsed.Load()
		if now-lastUsed > idleThreshold && len(queue.ch) == 0 {
			if queue.close() {
				m.logger.Debug("cleaning up idle write queue",
					zap.Int64("key", key),
					zap.Duration("idleTime", time.Duration(now-lastUsed)))
			}
			m.queues.CompareAndDelete(key, queue)
		}
		return true
	})
}

// Shutdown closes write queue manager, waits for all operations to complete
// ctx is used to control shutdown timeout
// Shutdown 关闭写队列管理器，等待所有操作完成
// ctx 用于控制关闭超时
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")

	close(m.cleanupDone)

	done := make(chan struct{})
	go func() {
		m.queues.Range(func(_, value interface{}) bool {
			value.(*keyWriteQueue).close()
			return true
		})

		m.queues.Range(func(_, value interface{}) bool {
			value.(*keyWriteQueue).workerWg.Wait()
			return true
		})

		m.cleanupWg.Wait()

		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		m.cancel()
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout, forcing cancellation")
		m.cancel()
		return ctx.Err()
	}
}

// QueueCount returns current active queue count
// QueueCount 返回当前活跃队列数量
func (m *Manager) QueueCount() int {
	count := 0
	m.queues.Range(func(_, value interface{}) bool {
		if !value.(*keyWriteQueue).isClosed() {
			count++
		}
		return true
	})
	return count
}

// QueuedCount returns number of operations waiting in the key's queue
// QueuedCount 返回指定 Key 队列中等待的操作数
func (m *Manager) QueuedCount(key int64) int {
	if v, ok := m.queues.Load(key); ok {
		return len(v.(*keyWriteQueue).ch)
	}
	return 0
}

// IsClosed returns if manager is closed
// IsClosed 返回管理器是否已关闭
func (m *Manager) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Metrics write queue manager metrics
// Metrics 写队列管理器指标
type Metrics struct {
	QueueCapacity int   `json:"queueCapacity"`
	ActiveQueues  int   `json:"activeQueues"`
	Executed      int64 `json:"executed"`
	Rejected      int64 `json:"rejected"`
	IsClosed      bool  `json:"isClosed"`
}

// GetMetrics gets current metrics
// GetMetrics 获取当前指标
func (m *Manager) GetMetrics() Metrics {
	return Metrics{
		QueueCapacity: m.config.QueueCapacity,
		ActiveQueues:  m.QueueCount(),
		Executed:      m.executed.Load(),
		Rejected:      m.rejected.Load(),
		IsClosed:      m.IsClosed(),
	}
}
