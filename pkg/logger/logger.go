package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 日志接口
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
	Sync() error
}

// ctxKey Context 字段键
type ctxKey string

const (
	KeyTraceID    ctxKey = "trace_id"
	KeyWorkerID   ctxKey = "worker_id"
	KeyActionType ctxKey = "action_type"
	KeyMessageID  ctxKey = "message_id"
)

// WithTraceID 注入 trace_id
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, KeyTraceID, traceID)
}

// WithWorkerID 注入 worker_id
func WithWorkerID(ctx context.Context, workerID int) context.Context {
	return context.WithValue(ctx, KeyWorkerID, workerID)
}

// WithActionType 注入 action_type
func WithActionType(ctx context.Context, actionType string) context.Context {
	return context.WithValue(ctx, KeyActionType, actionType)
}

// WithMessageID 注入 message_id
func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, KeyMessageID, messageID)
}

// ZapLogger Zap 日志实现
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger 创建 Zap 日志实例
func NewZapLogger(level string) (Logger, error) {
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{logger: logger}, nil
}

// NewNopLogger 丢弃所有输出（测试、命令行静默模式）
func NewNopLogger() Logger {
	return &ZapLogger{logger: zap.NewNop()}
}

// NewWithCore 基于自定义 Core 创建（测试中配合 observer 使用）
func NewWithCore(core zapcore.Core) Logger {
	return &ZapLogger{logger: zap.New(core)}
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

// extractFields 从 Context 提取日志字段
func (l *ZapLogger) extractFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 4)
	if ctx == nil {
		return fields
	}

	if traceID, ok := ctx.Value(KeyTraceID).(string); ok && traceID != "" {
		fields = append(fields, zap.String(string(KeyTraceID), traceID))
	}
	if workerID, ok := ctx.Value(KeyWorkerID).(int); ok {
		fields = append(fields, zap.Int(string(KeyWorkerID), workerID))
	}
	if actionType, ok := ctx.Value(KeyActionType).(string); ok && actionType != "" {
		fields = append(fields, zap.String(string(KeyActionType), actionType))
	}
	if messageID, ok := ctx.Value(KeyMessageID).(string); ok && messageID != "" {
		fields = append(fields, zap.String(string(KeyMessageID), messageID))
	}

	return fields
}

func (l *ZapLogger) Debugf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Infof(ctx context.Context, format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Warnf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Errorf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

// Sync 同步日志缓冲区
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
