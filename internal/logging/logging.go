package logging

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Azure/instigator/internal/identity"
	"github.com/Azure/instigator/internal/workload"
)

// NewZap builds the process-wide zap logger. Debug enables logr verbosity 1 and above.
func NewZap(debug bool) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zapCfg.Build()
}

// NewLoggerWithBuild creates a logger with serviceBuild field if buildVersion is provided
func NewLoggerWithBuild(zl *zap.Logger, buildVersion string) logr.Logger {
	logger := zapr.NewLogger(zl)

	// Add serviceBuild to all log entries if provided
	if buildVersion != "" {
		logger = logger.WithValues("serviceBuild", buildVersion)
	}

	return logger
}

// Logger emits one summary line per reconciliation, for consumers that
// aggregate outcomes from logs rather than metrics.
type Logger struct {
	logFn func(ctx context.Context, msg string, args ...any)
}

func NewLogger() *Logger {
	return &Logger{
		logFn: func(ctx context.Context, msg string, args ...any) {
			logr.FromContextOrDiscard(ctx).V(0).Info(msg, args...)
		},
	}
}

func (l *Logger) Log(ctx context.Context, msg string, field ...any) {
	enrichedFields := []any{"timestamp", time.Now()}
	enrichedFields = append(enrichedFields, field...)
	l.logFn(ctx, msg, enrichedFields...)
}

func (l *Logger) WithLogFn(fn func(ctx context.Context, msg string, args ...any)) *Logger {
	l.logFn = fn
	return l
}

// LogOutcome summarizes the result of reconciling a component instance.
func (l *Logger) LogOutcome(ctx context.Context, id identity.Instance, workloadType string, err error) {
	fields := []any{
		"eventType", EventType(err),
		"namespace", id.Namespace,
		"componentName", id.ComponentName,
		"instanceName", id.InstanceName,
		"workloadType", workloadType,
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	l.Log(ctx, "reconciliation finished", fields...)
}

// EventType classifies a reconciliation result.
func EventType(err error) string {
	switch {
	case err == nil:
		return "reconciled"
	case workload.IsTerminal(err):
		return "terminal_failure"
	case workload.IsRetriable(err):
		return "transient_failure"
	default:
		return "failure"
	}
}
