package rpledger

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"coldchain/backend/ccmain/internal/app/pkg/errorx"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
	"coldchain/backend/ccmain/internal/app/pkg/metrics"
)

// RetryPolicy OCC 重试策略
type RetryPolicy struct {
	MaxAttempts int           // 最大执行次数（含首次）
	Backoff     time.Duration // 基础退避时间，按次数线性增长并附加抖动
}

// DefaultRetryPolicy 默认重试策略
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 4, Backoff: 20 * time.Millisecond}
}

// retrier 冲突重试执行器，账本实现共用
type retrier struct {
	policy  RetryPolicy
	driver  string
	logger  logger.Logger
	metrics *metrics.Metrics
}

func newRetrier(policy RetryPolicy, driver string, log logger.Logger, m *metrics.Metrics) *retrier {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &retrier{policy: policy, driver: driver, logger: log, metrics: m}
}

// run 执行 attempt，仅 ErrConflict 触发重试，其余错误原样返回
func (r *retrier) run(ctx context.Context, attempt func() error) error {
	var lastErr error
	for i := 1; i <= r.policy.MaxAttempts; i++ {
		err := attempt()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConflict) {
			return err
		}
		lastErr = err
		r.metrics.LedgerConflictsTotal.WithLabelValues(r.driver).Inc()

		if i == r.policy.MaxAttempts {
			break
		}
		r.logger.WarnContext(ctx, "Retrying due to OCC conflict...",
			"attempt", i,
			"max_attempts", r.policy.MaxAttempts,
			"driver", r.driver,
		)
		if err := r.sleep(ctx, i); err != nil {
			return err
		}
	}

	r.metrics.LedgerExhaustedTotal.WithLabelValues(r.driver).Inc()
	r.logger.ErrorContext(ctx, "OCC retries exhausted",
		"attempts", r.policy.MaxAttempts,
		"driver", r.driver,
	)
	return errorx.ConflictExhausted(r.policy.MaxAttempts, lastErr)
}

func (r *retrier) sleep(ctx context.Context, attempt int) error {
	if r.policy.Backoff <= 0 {
		return ctx.Err()
	}
	d := r.policy.Backoff*time.Duration(attempt) + time.Duration(rand.Int63n(int64(r.policy.Backoff)))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
