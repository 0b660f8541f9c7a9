package logging

import (
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	appctx "github.com/Ramsey-B/sapling/pkg/context"
	"github.com/Ramsey-B/sapling/pkg/tracing"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Pretty selects zap's console encoder,
// otherwise JSON lines are written to stderr.
func New(level string, pretty bool) (ectologger.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if pretty {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	logger := zapadapter.NewZapEctoLogger(zapLogger, withRunFields)
	return logger, func() { _ = zapLogger.Sync() }, nil
}

// Nop discards everything. Used by tests and by commands that print to stdout.
func Nop() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// withRunFields copies the run-scoped context values onto every message.
func withRunFields(msg ectologger.EctoLogMessage) ectologger.EctoLogMessage {
	if msg.Ctx == nil {
		return msg
	}
	fields := appctx.Fields(msg.Ctx)
	if traceID := tracing.GetTraceID(msg.Ctx); traceID != "" {
		fields["trace_id"] = traceID
	}
	if len(fields) == 0 {
		return msg
	}

	merged := make(map[string]any, len(msg.Fields)+len(fields))
	for k, v := range fields {
		merged[k] = v
	}
	for k, v := range msg.Fields {
		merged[k] = v
	}
	msg.Fields = merged
	return msg
}
