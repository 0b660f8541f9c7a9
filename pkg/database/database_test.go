package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/db/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

func openMigrated(t *testing.T) DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "test.db")}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewMigrationService(testLogger(), &MigrationConfig{Source: sqlite.Migrations, Path: sqlite.Path})
	require.NoError(t, svc.Migrate(db.SQLDB()))
	return db
}

func TestOpen(t *testing.T) {
	t.Run("requires a path", func(t *testing.T) {
		_, err := Open(context.Background(), Config{}, testLogger())
		assert.Error(t, err)
	})

	t.Run("clamps open connections to one", func(t *testing.T) {
		db, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "a.db")}, testLogger())
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, 1, db.Stats().MaxOpenConnections)
		assert.Equal(t, "sqlite3", db.DriverName())
	})
}

func TestMigrate(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()

	var tables []string
	err := db.SelectContext(ctx, &tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	require.NoError(t, err)

	for _, name := range []string{
		"cap_technical_functions", "capabilities", "configurations", "milestones",
		"pf_capabilities", "product_features", "product_variants", "pv_product_features",
		"schema_migrations", "technical_functions",
	} {
		assert.Contains(t, tables, name)
	}

	t.Run("second run is a no-op", func(t *testing.T) {
		svc := NewMigrationService(testLogger(), &MigrationConfig{Source: sqlite.Migrations, Path: sqlite.Path})
		assert.NoError(t, svc.Migrate(db.SQLDB()))
	})

	t.Run("missing source", func(t *testing.T) {
		svc := NewMigrationService(testLogger(), &MigrationConfig{})
		assert.Error(t, svc.Migrate(db.SQLDB()))
	})
}

func TestGetLatestVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000001_a.up.sql":   {},
		"m/000001_a.down.sql": {},
		"m/000012_b.up.sql":   {},
		"m/README.md":         {},
	}

	version, err := getLatestVersion(fsys, "m")
	require.NoError(t, err)
	assert.Equal(t, 12, version)

	_, err = getLatestVersion(fstest.MapFS{"m/README.md": {}}, "m")
	assert.Error(t, err)
}

func TestTransaction(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()

	insert := func(ctx context.Context, label string) {
		_, err := ExecutorFromContext(ctx, db).ExecContext(ctx, "INSERT INTO milestones (name, date) VALUES (?, ?)", label, "2024-01-01")
		require.NoError(t, err)
	}
	count := func() int {
		var n int
		require.NoError(t, db.GetContext(ctx, &n, "SELECT COUNT(*) FROM milestones"))
		return n
	}

	t.Run("rollback discards writes", func(t *testing.T) {
		txCtx, tx, err := db.GetTx(ctx, nil)
		require.NoError(t, err)
		insert(txCtx, "rolled back")
		require.NoError(t, tx.Rollback(txCtx))
		assert.False(t, tx.IsOpen())
		assert.Equal(t, 0, count())
	})

	t.Run("nested transaction defers to owner", func(t *testing.T) {
		txCtx, tx, err := db.GetTx(ctx, nil)
		require.NoError(t, err)

		innerCtx, inner, err := db.GetTx(txCtx, nil)
		require.NoError(t, err)
		insert(innerCtx, "kept")
		require.NoError(t, inner.Commit(innerCtx))
		assert.True(t, tx.IsOpen())

		require.NoError(t, tx.Commit(txCtx))
		assert.Equal(t, 1, count())
	})
}

func TestSelectBuilderFlavor(t *testing.T) {
	sb := NewSelectBuilder()
	sb.Select("label").From("product_features").Where(sb.In("platform", AnyOf([]string{"A-1", "A-1.1"})...))
	query, args := sb.Build()

	assert.Equal(t, "SELECT label FROM product_features WHERE platform IN (?, ?)", query)
	assert.Equal(t, []any{"A-1", "A-1.1"}, args)
}
