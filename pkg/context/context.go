package context

import "context"

type ContextKey string

var (
	RunIDKey   = ContextKey("X-Run-Id")
	CommandKey = ContextKey("X-Command")
	DBPathKey  = ContextKey("X-Db-Path")
)

// SetRunID tags every log line and span of one CLI invocation.
func SetRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

func GetRunID(ctx context.Context) string {
	value, ok := ctx.Value(RunIDKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, CommandKey, command)
}

func GetCommand(ctx context.Context) string {
	value, ok := ctx.Value(CommandKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetDBPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, DBPathKey, path)
}

func GetDBPath(ctx context.Context) string {
	value, ok := ctx.Value(DBPathKey).(string)
	if !ok {
		return ""
	}
	return value
}

// Fields returns the context values that are set, keyed for structured logging.
func Fields(ctx context.Context) map[string]any {
	fields := map[string]any{}
	if v := GetRunID(ctx); v != "" {
		fields["run_id"] = v
	}
	if v := GetCommand(ctx); v != "" {
		fields["command"] = v
	}
	if v := GetDBPath(ctx); v != "" {
		fields["db_path"] = v
	}
	return fields
}
