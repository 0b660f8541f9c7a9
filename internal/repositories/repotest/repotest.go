// Package repotest opens migrated SQLite databases for repository tests.
package repotest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/db/sqlite"
	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/stretchr/testify/require"
)

func Logger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

// Open returns a database in t's temp dir with every migration applied.
func Open(t *testing.T) database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{Path: filepath.Join(t.TempDir(), "sapling.db")}, Logger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := database.NewMigrationService(Logger(), &database.MigrationConfig{Source: sqlite.Migrations, Path: sqlite.Path})
	require.NoError(t, svc.Migrate(db.SQLDB()))
	return db
}
