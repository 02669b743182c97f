package framework

import (
	"context"
	"sync"
	"time"

	"github.com/bitleak/lmstfy/client"

	"qms/qcsync/pkg/lmstfyx"
	"qms/qcsync/pkg/logger"
)

// Processor 处理器：接收消息，调用业务处理函数，并按结果 ACK/Bury/Release
type Processor struct {
	cfg        *ProcessorConfig
	proc       lmstfyx.Proc     // 业务处理函数（注入的 GetProcess）
	source     MessageSource    // 用于 ACK
	deadLetter MessagePublisher // 用于 Bury 转投
	logger     Logger
	shutdownCh chan struct{} // 专门的退出信号通道
	wg         sync.WaitGroup
}

// NewProcessor 创建处理器
func NewProcessor(
	cfg *ProcessorConfig,
	proc lmstfyx.Proc,
	source MessageSource,
	deadLetter MessagePublisher,
	logger Logger,
) *Processor {
	return &Processor{
		cfg:        cfg,
		proc:       proc,
		source:     source,
		deadLetter: deadLetter,
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Start 启动处理协程
func (p *Processor) Start(ctx context.Context, inputChan <-chan *Message) error {
	p.logger.Infof(ctx, "[Processor] Starting with %d workers", p.cfg.Concurrency)

	for i := 0; i < p.cfg.Concurrency; i++ {
		workerID := i
		p.wg.Add(1)
		go p.loop(ctx, workerID, inputChan)
	}

	return nil
}

// SignalShutdown 通知 Processor 准备退出（进入 Drain 模式）
func (p *Processor) SignalShutdown() {
	p.logger.Infof(context.Background(), "[Processor] Shutdown signal received")
	close(p.shutdownCh)
}

// Wait 等待所有处理协程退出
func (p *Processor) Wait() {
	p.wg.Wait()
	p.logger.Infof(context.Background(), "[Processor] All workers exited")
}

// loop 处理循环（单个 Worker）
func (p *Processor) loop(ctx context.Context, workerID int, inputChan <-chan *Message) {
	defer p.wg.Done()
	ctx = logger.WithWorkerID(ctx, workerID)
	p.logger.Infof(ctx, "[Processor-%d] Started", workerID)

	for {
		select {
		// A. 正常业务处理
		case msg := <-inputChan:
			p.process(ctx, msg, workerID)

		// B. Drain 模式：处理完剩余消息再退出
		case <-p.shutdownCh:
			p.logger.Infof(ctx, "[Processor-%d] Entering DRAIN mode", workerID)
			count := 0
			for {
				select {
				case msg := <-inputChan:
					p.process(ctx, msg, workerID)
					count++
				default:
					// Channel 空了，安全退出
					p.logger.Infof(ctx, "[Processor-%d] Drained %d messages, exiting", workerID, count)
					return
				}
			}
		}
	}
}

// process 处理单个消息
func (p *Processor) process(ctx context.Context, msg *Message, workerID int) {
	if msg == nil {
		return
	}

	startTime := time.Now()

	// 1. 创建超时控制的 Context
	procCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	// 2. 注入元信息到 Context
	procCtx = logger.WithMessageID(procCtx, msg.ID)

	p.logger.Infof(procCtx, "[Processor-%d] Processing message: %s", workerID, msg.ID)

	// 3. 调用业务处理函数（注入的 GetProcess）
	job := &client.Job{
		ID:    msg.ID,
		Queue: msg.Queue,
		Data:  msg.Data,
	}

	resp := p.proc(procCtx, job)
	if resp == nil {
		resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease}
	}

	// 4. 根据处理结果操作队列
	// 超时的 procCtx 不能再用于队列操作，这里使用外层 ctx
	p.settle(ctx, msg, resp)

	duration := time.Since(startTime)
	p.logger.Infof(procCtx, "[Processor-%d] Message processed: %s, action: %s, duration: %v",
		workerID, msg.ID, resp.Action, duration)
}

// settle 执行 ACK/Bury/Release
func (p *Processor) settle(ctx context.Context, msg *Message, resp *lmstfyx.JobResp) {
	switch resp.Action {
	case lmstfyx.JobRespStatusSuccess:
		p.ack(ctx, msg)

	case lmstfyx.JobRespStatusBury:
		if p.cfg.DeadQueue != "" && p.deadLetter != nil {
			if err := p.deadLetter.Publish(p.cfg.DeadQueue, msg.Data, 0, 0); err != nil {
				// 转投失败不 ACK，等待 TTR 到期后重新投递，避免丢消息
				p.logger.Errorf(ctx, "[Processor] Bury %s to %s failed: %v", msg.ID, p.cfg.DeadQueue, err)
				return
			}
			p.logger.Warnf(ctx, "[Processor] Message %s buried to %s", msg.ID, p.cfg.DeadQueue)
		} else {
			p.logger.Warnf(ctx, "[Processor] Message %s dropped (no dead queue)", msg.ID)
		}
		p.ack(ctx, msg)

	case lmstfyx.JobRespStatusRelease:
		p.logger.Warnf(ctx, "[Processor] Message %s released, will be redelivered after TTR", msg.ID)
	}
}

func (p *Processor) ack(ctx context.Context, msg *Message) {
	if err := p.source.Ack(msg.Queue, msg.ID); err != nil {
		p.logger.Errorf(ctx, "[Processor] Ack %s failed: %v", msg.ID, err)
	}
}
