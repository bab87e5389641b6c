package worker

import (
	"context"
	"sync"

	"coldchain/backend/ccsync/internal/framework"
	"coldchain/backend/ccsync/pkg/lmstfyx"
	"coldchain/backend/ccsync/pkg/logger"
)

// Worker 接口
type Worker interface {
	Start()
	Shutdown()
	GetName() string
}

// WorkerInstance 一个队列对应一个 Worker：Subscriber 拉取，Processor 处理
type WorkerInstance struct {
	ctx        context.Context
	name       string
	subscriber *framework.Subscriber
	processor  *framework.Processor
	inputChan  chan *framework.Message
	shutdownCh chan struct{}
	logger     logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewWorkerInstance 创建 Worker 实例
func NewWorkerInstance(
	ctx context.Context,
	name string,
	subscriberCfg *framework.SubscriberConfig,
	processorCfg *framework.ProcessorConfig,
	source framework.MessageSource,
	proc lmstfyx.Proc,
	log logger.Logger,
) *WorkerInstance {
	return &WorkerInstance{
		ctx:        ctx,
		name:       name,
		subscriber: framework.NewSubscriber(subscriberCfg, source, log),
		processor:  framework.NewProcessor(processorCfg, proc, source, log),
		inputChan:  make(chan *framework.Message, processorCfg.BufferSize),
		shutdownCh: make(chan struct{}),
		logger:     log,
	}
}

// Start 启动 Worker，阻塞到 Shutdown 完成
func (w *WorkerInstance) Start() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.processor.Start(w.ctx, w.inputChan)
	w.subscriber.Start(w.ctx, w.inputChan)
	w.mu.Unlock()

	w.logger.Infof(w.ctx, "[Worker] %s started", w.name)
	<-w.shutdownCh
}

// Shutdown 优雅退出：先停拉取，再排空缓冲区
func (w *WorkerInstance) Shutdown() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.subscriber.Stop()
	w.mu.Unlock()

	w.logger.Infof(w.ctx, "[Worker] %s began to close", w.name)
	w.subscriber.Wait()

	w.processor.SignalShutdown()
	w.processor.Wait()

	close(w.shutdownCh)
	w.logger.Infof(w.ctx, "[Worker] %s shutdown complete", w.name)
}

// GetName 获取 Worker 名称
func (w *WorkerInstance) GetName() string {
	return w.name
}

// Processor 暴露处理器（统计用）
func (w *WorkerInstance) Processor() *framework.Processor {
	return w.processor
}
