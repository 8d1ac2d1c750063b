package logger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

const serviceName = "loan-origination"

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Init builds the process-wide JSON logger writing to stdout.
func Init(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.Encoding = "json"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "log_level"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.StacktraceKey = ""
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.OutputPaths = []string{"stdout"}

	l, err := config.Build(zap.AddCallerSkip(1), zap.Fields(zap.String("service_name", serviceName)))
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set replaces the global logger. Tests use it with an observer core.
func Set(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func Debug(ctx context.Context, format string, args ...any) {
	logMessage(ctx, zap.DebugLevel, format, args...)
}

func Info(ctx context.Context, format string, args ...any) {
	logMessage(ctx, zap.InfoLevel, format, args...)
}

func Warn(ctx context.Context, format string, args ...any) {
	logMessage(ctx, zap.WarnLevel, format, args...)
}

func Error(ctx context.Context, format string, args ...any) {
	logMessage(ctx, zap.ErrorLevel, format, args...)
}

func logMessage(ctx context.Context, level zapcore.Level, format string, args ...any) {
	l := L()
	if !l.Core().Enabled(level) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	var fields []zapcore.Field
	if id := RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if ce := l.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}
