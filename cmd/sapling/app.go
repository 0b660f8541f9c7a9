package main

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectoinject/loglevel"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/config"
	"github.com/Ramsey-B/sapling/db/sqlite"
	"github.com/Ramsey-B/sapling/internal/repositories/configuration"
	"github.com/Ramsey-B/sapling/internal/repositories/entity"
	"github.com/Ramsey-B/sapling/internal/repositories/milestone"
	"github.com/Ramsey-B/sapling/internal/repositories/relationship"
	"github.com/Ramsey-B/sapling/pkg/catalog"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/Ramsey-B/sapling/pkg/export"
	"github.com/Ramsey-B/sapling/pkg/readiness"
	"github.com/Ramsey-B/sapling/pkg/roadmap"
	"github.com/Ramsey-B/sapling/pkg/startup"
	"github.com/Ramsey-B/sapling/pkg/versioning"
)

// app owns the process-wide dependencies of one CLI invocation.
type app struct {
	cfg       *config.Config
	logger    ectologger.Logger
	container ectocontainer.DIContainer
	startup   *startup.Startup
	db        database.DB
}

func newApp(runID string, cfg *config.Config, logger ectologger.Logger) (*app, error) {
	container, err := ectoinject.NewDIContainer(ectocontainer.DIContainerConfig{
		ID:                       runID,
		AllowCaptiveDependencies: true,
		AllowMissingDependencies: true,
		LoggerConfig: &ectocontainer.DIContainerLoggerConfig{
			Prefix:   "ectoinject",
			LogLevel: loglevel.WARN,
			Enabled:  false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		container: container,
		startup:   startup.NewStartup(logger, cfg.StartupMaxAttempts),
	}
	a.startup.AddDependency(&databaseDependency{app: a})
	a.startup.AddDependency(&migrationDependency{app: a})
	a.startup.AddDependency(&seedDependency{app: a})

	if err := ectoinject.RegisterInstance[*config.Config](container, cfg); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
		return nil, err
	}
	return a, nil
}

// scope returns ctx with this app's container active.
func (a *app) scope(ctx context.Context) (context.Context, error) {
	return ectoinject.SetActiveContainer(ctx, a.container.GetContainerID())
}

// register wires repositories and services once the database is open.
func (a *app) register() error {
	var opts []versioning.Option
	if a.cfg.VersionLatticeFile != "" {
		loaded, err := versioning.LoadLatticeFile(a.cfg.VersionLatticeFile)
		if err != nil {
			return err
		}
		opts = loaded
	}
	builder := criteria.NewBuilder(versioning.NewMatcher(opts...))

	entities := entity.NewRepository(a.db, a.logger)
	links := relationship.NewRepository(a.db, a.logger)
	configurations := configuration.NewRepository(a.db, a.logger)
	milestones := milestone.NewRepository(a.db, a.logger)

	engine := readiness.NewEngine(builder, readiness.WithDescriptionMaxLen(a.cfg.DescriptionMaxLen))

	registrations := []func() error{
		func() error { return ectoinject.RegisterInstance[database.DB](a.container, a.db) },
		func() error { return ectoinject.RegisterInstance[*criteria.Builder](a.container, builder) },
		func() error { return ectoinject.RegisterInstance[*entity.Repository](a.container, entities) },
		func() error { return ectoinject.RegisterInstance[*relationship.Repository](a.container, links) },
		func() error { return ectoinject.RegisterInstance[*configuration.Repository](a.container, configurations) },
		func() error { return ectoinject.RegisterInstance[*milestone.Repository](a.container, milestones) },
		func() error {
			return ectoinject.RegisterInstance[*readiness.Service](a.container, readiness.NewService(entities, engine, a.logger))
		},
		func() error {
			svc := roadmap.NewService(entities, milestones, builder, roadmap.NewBuilder(a.cfg.RoadmapMaxItems), a.logger)
			return ectoinject.RegisterInstance[*roadmap.Service](a.container, svc)
		},
		func() error {
			svc := export.NewBackupService(a.db, entities, links, configurations, milestones, a.logger)
			return ectoinject.RegisterInstance[*export.BackupService](a.container, svc)
		},
		func() error {
			return ectoinject.RegisterInstance[*catalog.Seeder](a.container, catalog.NewSeeder(configurations, a.logger))
		},
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register dependency: %w", err)
		}
	}
	return nil
}

type databaseDependency struct {
	app *app
}

func (d *databaseDependency) GetName() string     { return "database" }
func (d *databaseDependency) DependsOn() []string { return nil }

func (d *databaseDependency) Start(ctx context.Context) error {
	cfg := d.app.cfg
	db, err := database.Open(ctx, database.Config{
		Path:            cfg.DatabasePath,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, d.app.logger)
	if err != nil {
		return err
	}
	d.app.db = db
	return d.app.register()
}

func (d *databaseDependency) Stop(ctx context.Context) error {
	if d.app.db == nil {
		return nil
	}
	return d.app.db.Close()
}

type migrationDependency struct {
	app *app
}

func (m *migrationDependency) GetName() string     { return "migrations" }
func (m *migrationDependency) DependsOn() []string { return []string{"database"} }

func (m *migrationDependency) Start(ctx context.Context) error {
	cfg := m.app.cfg
	svc := database.NewMigrationService(m.app.logger, &database.MigrationConfig{
		Source:       sqlite.Migrations,
		Path:         sqlite.Path,
		Version:      uint(max(cfg.DatabaseMigrationVersion, 0)),
		Force:        cfg.DatabaseMigrationForce,
		AutoRollback: cfg.DatabaseMigrationAutoRollback,
	})
	return svc.Migrate(m.app.db.SQLDB())
}

func (m *migrationDependency) Stop(context.Context) error { return nil }

type seedDependency struct {
	app *app
}

func (s *seedDependency) GetName() string     { return "seed" }
func (s *seedDependency) DependsOn() []string { return []string{"migrations"} }

// Start fills an empty configuration catalog.
func (s *seedDependency) Start(ctx context.Context) error {
	ctx, err := s.app.scope(ctx)
	if err != nil {
		return err
	}
	ctx, seeder, err := ectoinject.GetContext[*catalog.Seeder](ctx)
	if err != nil {
		return err
	}
	c, err := catalog.Load(s.app.cfg.CatalogSeedFile)
	if err != nil {
		return err
	}
	_, err = seeder.Seed(ctx, c, false)
	return err
}

func (s *seedDependency) Stop(context.Context) error { return nil }
