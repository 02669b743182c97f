package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"qms/qcsync/internal/business"
	"qms/qcsync/internal/domains"
	"qms/qcsync/internal/framework"
	"qms/qcsync/pkg/config"
	"qms/qcsync/pkg/lmstfy"
	"qms/qcsync/pkg/logger"
	"qms/qcsync/pkg/metrics"
)

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// Queue lmstfy 客户端能力集合：拉取、ACK、发布
type Queue interface {
	framework.MessageSource
	framework.MessagePublisher
}

// ManagerInstance Manager 实例
type ManagerInstance struct {
	ctx        context.Context
	cfg        *config.Config
	queue      Queue
	notifier   business.Notifier
	metrics    *metrics.Metrics
	workers    []Worker
	closing    *atomic.Bool
	shutdownCh chan struct{}
	wg         sync.WaitGroup
	mu         sync.RWMutex
	logger     logger.Logger
}

// Option Manager 可选依赖
type Option func(m *ManagerInstance)

// WithNotifier 分析完成后发送 Redis 通知
func WithNotifier(n business.Notifier) Option {
	return func(m *ManagerInstance) { m.notifier = n }
}

// WithMetrics 记录任务指标
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *ManagerInstance) { m.metrics = mt }
}

// WithQueue 替换默认的 lmstfy 客户端（测试使用）
func WithQueue(q Queue) Option {
	return func(m *ManagerInstance) { m.queue = q }
}

// NewManagerInstance 创建 Manager
func NewManagerInstance(cfg *config.Config, log logger.Logger, opts ...Option) (Manager, error) {
	ctx := context.Background()

	m := &ManagerInstance{
		ctx:        ctx,
		cfg:        cfg,
		closing:    atomic.NewBool(false),
		shutdownCh: make(chan struct{}),
		workers:    make([]Worker, 0, len(cfg.Workers)),
		logger:     log,
	}
	for _, opt := range opts {
		opt(m)
	}

	// 初始化 lmstfy 客户端
	if m.queue == nil {
		lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
		}
		m.queue = lmstfyClient
	}

	// 加载所有 Worker
	if err := m.loadWorkers(); err != nil {
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}

	log.Infof(ctx, "[Manager] Initialized with %d workers, dead_queue: %q", len(m.workers), cfg.Lmstfy.DeadQueue)

	return m, nil
}

// Start 启动 Manager
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	m.mu.RLock()
	workers := m.workers
	m.mu.RUnlock()

	// 启动所有 Worker（每个 Worker 在独立 goroutine）
	for _, worker := range workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	m.logger.Infof(m.ctx, "[Manager] Start success")

	// 阻塞等待退出信号
	<-m.shutdownCh

	return nil
}

// Shutdown 优雅退出
func (m *ManagerInstance) Shutdown() {
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	// 原子操作，保证并发安全
	if m.closing.CAS(false, true) {
		m.mu.RLock()
		workers := m.workers
		m.mu.RUnlock()

		// 1. 所有 Worker 安全退出
		for _, worker := range workers {
			m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
			worker.Shutdown()
		}

		// 2. 等待所有 Worker 退出
		m.wg.Wait()

		// 3. 关闭信号通道
		close(m.shutdownCh)

		m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
	}
}

// loadWorkers 加载所有 Worker
func (m *ManagerInstance) loadWorkers() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, workerCfg := range m.cfg.Workers {
		subCfg := &framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}

		procCfg := &framework.ProcessorConfig{
			Concurrency: workerCfg.Processor.Threads,
			BufferSize:  workerCfg.Processor.BufferSize,
			Timeout:     workerCfg.Processor.Timeout,
			DeadQueue:   m.cfg.Lmstfy.DeadQueue,
		}

		// 每个 Worker 回调到自己的 callback 队列
		service := business.NewAnalysisService(m.queue, workerCfg.CallbackQueue, m.notifier, m.metrics, m.logger)
		getProcess := domains.GetProcess(m.logger, service, m.metrics)

		worker, err := NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.queue, // MessageSource
			m.queue, // 死信转投
			getProcess,
			m.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create worker %s: %w", workerCfg.Name, err)
		}

		m.workers = append(m.workers, worker)
	}

	return nil
}
