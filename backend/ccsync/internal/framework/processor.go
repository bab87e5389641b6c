package framework

import (
	"context"
	"sync"
	"time"

	"github.com/bitleak/lmstfy/client"
	"go.uber.org/atomic"

	"coldchain/backend/ccsync/pkg/lmstfyx"
	"coldchain/backend/ccsync/pkg/logger"
)

// Processor 处理器：接收消息，调用业务处理函数，并按结果 ACK
type Processor struct {
	cfg        *ProcessorConfig
	proc       lmstfyx.Proc
	source     MessageSource
	logger     Logger
	shutdownCh chan struct{}
	wg         sync.WaitGroup

	inFlight *atomic.Int64
	acked    *atomic.Int64
	released *atomic.Int64
}

// NewProcessor 创建处理器
func NewProcessor(cfg *ProcessorConfig, proc lmstfyx.Proc, source MessageSource, log Logger) *Processor {
	return &Processor{
		cfg:        cfg,
		proc:       proc,
		source:     source,
		logger:     log,
		shutdownCh: make(chan struct{}),
		inFlight:   atomic.NewInt64(0),
		acked:      atomic.NewInt64(0),
		released:   atomic.NewInt64(0),
	}
}

// Start 启动处理协程
func (p *Processor) Start(ctx context.Context, inputChan <-chan *Message) {
	p.logger.Infof(ctx, "[Processor] Starting with %d workers", p.cfg.Concurrency)

	for i := 0; i < p.cfg.Concurrency; i++ {
		p.wg.Add(1)
		go p.loop(ctx, i, inputChan)
	}
}

// SignalShutdown 通知 Processor 进入 Drain 模式
func (p *Processor) SignalShutdown() {
	p.logger.Infof(context.Background(), "[Processor] Shutdown signal received")
	close(p.shutdownCh)
}

// Wait 等待所有处理协程退出
func (p *Processor) Wait() {
	p.wg.Wait()
	p.logger.Infof(context.Background(), "[Processor] All workers exited, acked=%d released=%d",
		p.acked.Load(), p.released.Load())
}

// InFlight 正在处理的消息数
func (p *Processor) InFlight() int64 {
	return p.inFlight.Load()
}

// Acked 已 ACK 的消息数（含 Bury）
func (p *Processor) Acked() int64 {
	return p.acked.Load()
}

// Released 留待重投的消息数
func (p *Processor) Released() int64 {
	return p.released.Load()
}

func (p *Processor) loop(ctx context.Context, workerID int, inputChan <-chan *Message) {
	defer p.wg.Done()
	p.logger.Debugf(ctx, "[Processor-%d] Started", workerID)

	for {
		select {
		case msg := <-inputChan:
			p.process(ctx, msg, workerID)

		// Drain 模式：处理完缓冲区剩余消息再退出
		case <-p.shutdownCh:
			count := 0
			for {
				select {
				case msg := <-inputChan:
					p.process(ctx, msg, workerID)
					count++
				default:
					p.logger.Infof(ctx, "[Processor-%d] Drained %d messages, exiting", workerID, count)
					return
				}
			}
		}
	}
}

func (p *Processor) process(ctx context.Context, msg *Message, workerID int) {
	if msg == nil {
		return
	}
	p.inFlight.Inc()
	defer p.inFlight.Dec()

	startTime := time.Now()

	procCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()
	procCtx = logger.WithWorkerID(procCtx, workerID)
	procCtx = logger.WithMessageID(procCtx, msg.ID)

	resp := p.proc(procCtx, &client.Job{
		ID:    msg.ID,
		Queue: msg.Queue,
		Data:  msg.Data,
	})
	if resp == nil {
		resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease}
	}

	switch resp.Action {
	case lmstfyx.JobRespStatusSuccess, lmstfyx.JobRespStatusBury:
		if err := p.source.Ack(msg.Queue, msg.ID); err != nil {
			// ACK 失败的消息会在 TTR 后重投，业务处理需幂等
			p.logger.Errorf(procCtx, "[Processor-%d] Ack failed: %v", workerID, err)
		} else {
			p.acked.Inc()
		}
		if resp.Action == lmstfyx.JobRespStatusBury {
			p.logger.Errorf(procCtx, "[Processor-%d] Message buried: %s", workerID, string(resp.Data))
		}
	case lmstfyx.JobRespStatusRelease:
		p.released.Inc()
		p.logger.Warnf(procCtx, "[Processor-%d] Message released for redelivery", workerID)
	}

	p.logger.Infof(procCtx, "[Processor-%d] Message processed, action: %s, duration: %v",
		workerID, resp.Action, time.Since(startTime))
}
