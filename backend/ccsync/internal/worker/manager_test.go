package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"coldchain/backend/ccsync/internal/framework"
	"coldchain/backend/ccsync/pkg/config"
	"coldchain/backend/ccsync/pkg/lmstfyx"
	"coldchain/backend/ccsync/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type queueSource struct {
	mu    sync.Mutex
	queue []*framework.Message
	acked []string
}

func (s *queueSource) Consume(_ string, timeout time.Duration, _ time.Duration) (*framework.Message, error) {
	s.mu.Lock()
	if len(s.queue) > 0 {
		msg := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		return msg, nil
	}
	s.mu.Unlock()
	time.Sleep(timeout)
	return nil, nil
}

func (s *queueSource) Ack(_ string, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, jobID)
	return nil
}

func (s *queueSource) ackCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.acked)
}

func testConfig() *config.Config {
	return &config.Config{
		Workers: []config.WorkerConfig{{
			Name:      "alert",
			QueueName: "shipment_alert",
			Subscriber: config.SubscriberConfig{
				Threads: 2,
				Timeout: 5 * time.Millisecond,
			},
			Processor: config.ProcessorConfig{
				Threads:    2,
				BufferSize: 8,
				Timeout:    time.Second,
			},
		}},
	}
}

func TestManagerProcessesAndShutsDown(t *testing.T) {
	src := &queueSource{}
	for _, id := range []string{"j1", "j2", "j3", "j4", "j5"} {
		src.queue = append(src.queue, &framework.Message{ID: id, Queue: "shipment_alert"})
	}

	processed := atomic.NewInt64(0)
	proc := func(context.Context, *client.Job) *lmstfyx.JobResp {
		processed.Inc()
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
	}

	mgr := NewManagerInstance(testConfig(), src, proc, logger.NewNop())
	done := make(chan error, 1)
	go func() { done <- mgr.Start() }()
	<-mgr.Started()

	require.Eventually(t, func() bool { return src.ackCount() == 5 }, 2*time.Second, 5*time.Millisecond)

	mgr.Shutdown()
	mgr.Shutdown()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "manager did not stop")
	}
	assert.Equal(t, int64(5), processed.Load())
}

func TestShutdownBeforeStart(t *testing.T) {
	mgr := NewManagerInstance(testConfig(), &queueSource{}, func(context.Context, *client.Job) *lmstfyx.JobResp {
		return &lmstfyx.JobResp{}
	}, logger.NewNop())

	mgr.Shutdown()
	assert.Error(t, mgr.Start())
}

func TestWorkerShutdownDrainsBuffer(t *testing.T) {
	src := &queueSource{}
	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	proc := func(context.Context, *client.Job) *lmstfyx.JobResp {
		once.Do(func() { close(entered) })
		<-release
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
	}

	w := NewWorkerInstance(context.Background(), "alert",
		&framework.SubscriberConfig{QueueName: "q", Concurrency: 1, Timeout: 5 * time.Millisecond},
		&framework.ProcessorConfig{Concurrency: 1, BufferSize: 4, Timeout: time.Second},
		src, proc, logger.NewNop())

	// 启动前写入缓冲区，模拟已拉取未处理的消息
	for _, id := range []string{"a", "b", "c"} {
		w.inputChan <- &framework.Message{ID: id, Queue: "q"}
	}

	go w.Start()
	<-entered

	stopped := make(chan struct{})
	go func() {
		w.Shutdown()
		close(stopped)
	}()
	close(release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "worker did not drain")
	}
	assert.Equal(t, 3, src.ackCount())
}
