package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"coldchain/backend/ccsync/internal/framework"
	"coldchain/backend/ccsync/pkg/config"
	"coldchain/backend/ccsync/pkg/lmstfyx"
	"coldchain/backend/ccsync/pkg/logger"
)

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance 管理全部 Worker 的生命周期
type ManagerInstance struct {
	ctx        context.Context
	cfg        *config.Config
	source     framework.MessageSource
	proc       lmstfyx.Proc
	workers    []Worker
	closing    *atomic.Bool
	started    chan struct{}
	shutdownCh chan struct{}
	mu         sync.Mutex
	logger     logger.Logger
}

// NewManagerInstance 创建 Manager
// source 为消息源（lmstfy），proc 为按 action_type 路由的处理函数
func NewManagerInstance(cfg *config.Config, source framework.MessageSource, proc lmstfyx.Proc, log logger.Logger) *ManagerInstance {
	return &ManagerInstance{
		ctx:        context.Background(),
		cfg:        cfg,
		source:     source,
		proc:       proc,
		closing:    atomic.NewBool(false),
		started:    make(chan struct{}),
		shutdownCh: make(chan struct{}),
		logger:     log,
	}
}

// Start 启动全部 Worker，阻塞直到 Shutdown 完成
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	m.mu.Lock()
	if m.closing.Load() {
		m.mu.Unlock()
		return fmt.Errorf("manager is closing")
	}
	m.loadWorkers()
	workers := m.workers
	close(m.started)
	m.mu.Unlock()

	m.logger.Infof(m.ctx, "[Manager] All workers loaded, count: %d", len(workers))

	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			w.Start()
			return nil
		})
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	err := g.Wait()
	<-m.shutdownCh
	return err
}

// Shutdown 优雅退出，可重复调用
func (m *ManagerInstance) Shutdown() {
	if !m.closing.CAS(false, true) {
		return
	}
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	m.mu.Lock()
	workers := m.workers
	m.mu.Unlock()

	for _, w := range workers {
		m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", w.GetName())
		w.Shutdown()
	}

	close(m.shutdownCh)
	m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
}

// Started 全部 Worker 加载完成后关闭
func (m *ManagerInstance) Started() <-chan struct{} {
	return m.started
}

func (m *ManagerInstance) loadWorkers() {
	for _, wc := range m.cfg.Workers {
		subCfg := &framework.SubscriberConfig{
			QueueName:    wc.QueueName,
			Concurrency:  wc.Subscriber.Threads,
			Rate:         wc.Subscriber.Rate,
			Timeout:      wc.Subscriber.Timeout,
			TTR:          wc.Subscriber.TTR,
			ErrorBackoff: wc.Subscriber.ErrorBackoff,
		}
		procCfg := &framework.ProcessorConfig{
			Concurrency: wc.Processor.Threads,
			BufferSize:  wc.Processor.BufferSize,
			Timeout:     wc.Processor.Timeout,
		}

		m.workers = append(m.workers, NewWorkerInstance(m.ctx, wc.Name, subCfg, procCfg, m.source, m.proc, m.logger))
	}
}
