package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 日志接口，fields 为 key/value 交替排列
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})

	// Context 支持（用于链路追踪）
	InfoContext(ctx context.Context, msg string, fields ...interface{})
	ErrorContext(ctx context.Context, msg string, fields ...interface{})
	WarnContext(ctx context.Context, msg string, fields ...interface{})
	DebugContext(ctx context.Context, msg string, fields ...interface{})

	Sync() error
}

type traceIDKey struct{}

// WithTraceID 在 Context 中写入 trace_id
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID 读取 Context 中的 trace_id
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// ZapLogger Zap 日志实现
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger 创建 Zap 日志实例
func NewZapLogger(level string) (*ZapLogger, error) {
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := cfg.Build(zap.Fields(zap.String("service", "ccmain")))
	if err != nil {
		return nil, err
	}
	return NewFromZap(l), nil
}

// NewFromZap 基于已有的 zap.Logger 构建（测试中配合 observer 使用）
func NewFromZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: l.Sugar()}
}

// NewNop 不输出任何日志
func NewNop() *ZapLogger {
	return NewFromZap(zap.NewNop())
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *ZapLogger) withContext(ctx context.Context, fields []interface{}) []interface{} {
	if traceID := TraceID(ctx); traceID != "" {
		return append(fields, "trace_id", traceID)
	}
	return fields
}

func (l *ZapLogger) Info(msg string, fields ...interface{}) {
	l.sugar.Infow(msg, fields...)
}

func (l *ZapLogger) Error(msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, fields...)
}

func (l *ZapLogger) Warn(msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, fields...)
}

func (l *ZapLogger) Debug(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, fields...)
}

func (l *ZapLogger) InfoContext(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Infow(msg, l.withContext(ctx, fields)...)
}

func (l *ZapLogger) ErrorContext(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, l.withContext(ctx, fields)...)
}

func (l *ZapLogger) WarnContext(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, l.withContext(ctx, fields)...)
}

func (l *ZapLogger) DebugContext(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, l.withContext(ctx, fields)...)
}

// Sync 同步日志缓冲区
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
