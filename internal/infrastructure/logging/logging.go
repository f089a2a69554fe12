package logging

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

// Setup configures the global logrus logger. Servers log JSON, the CLI text.
func Setup(level string, json bool, out io.Writer) {
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if out != nil {
		log.SetOutput(out)
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("Unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

type requestIDKey struct{}

// WithRequestID stores a correlation id for log lines emitted downstream.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// TraceLogger emits every step of a pricing trace at debug level.
type TraceLogger struct {
	logger *log.Logger
}

func NewTraceLogger(logger *log.Logger) *TraceLogger {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &TraceLogger{logger: logger}
}

func (t *TraceLogger) Observe(ctx context.Context, operation string, trace domain.Trace) {
	entry := t.logger.WithField("operation", operation)
	if id := RequestID(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}
	for i, step := range trace.Steps {
		fields := log.Fields{
			"step":   i,
			"phase":  step.Phase,
			"amount": step.Amount.Format(),
		}
		if step.RuleID != "" {
			fields["rule_id"] = step.RuleID
		}
		entry.WithFields(fields).Debug(step.Message)
	}
}
