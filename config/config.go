package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName            string `env:"APP_NAME" env-default:"sapling"`
	LogLevel           string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs         bool   `env:"PRETTY_LOGS" env-default:"false"`
	StartupMaxAttempts int    `env:"STARTUP_MAX_ATTEMPTS" env-default:"3"`

	// SQLite
	DatabasePath                  string        `env:"DB_PATH" env-default:"product_features.db"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"1"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"1"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"0s"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Tracing
	TraceStdout bool `env:"TRACE_STDOUT" env-default:"false"`

	// Metrics. Written once per run for the node-exporter textfile collector.
	MetricsTextfile string `env:"METRICS_TEXTFILE" env-default:""`

	// Readiness / roadmap
	RoadmapMaxItems    int    `env:"ROADMAP_MAX_ITEMS" env-default:"50"`
	DescriptionMaxLen  int    `env:"DESCRIPTION_MAX_LEN" env-default:"80"`
	VersionLatticeFile string `env:"VERSION_LATTICE_FILE" env-default:""`
	CatalogSeedFile    string `env:"CATALOG_SEED_FILE" env-default:""`
}

// Load reads an optional .env file and binds the environment onto a Config.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := ectoenv.BindEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
