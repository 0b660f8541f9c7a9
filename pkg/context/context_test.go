package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRunID(ctx))
	assert.Empty(t, Fields(ctx))

	ctx = SetRunID(ctx, "run-1")
	ctx = SetCommand(ctx, "query")
	ctx = SetDBPath(ctx, "/tmp/sapling.db")

	assert.Equal(t, "run-1", GetRunID(ctx))
	assert.Equal(t, "query", GetCommand(ctx))
	assert.Equal(t, "/tmp/sapling.db", GetDBPath(ctx))
	assert.Equal(t, map[string]any{
		"run_id":  "run-1",
		"command": "query",
		"db_path": "/tmp/sapling.db",
	}, Fields(ctx))
}
