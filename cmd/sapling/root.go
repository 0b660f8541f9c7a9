package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/sapling/config"
	appctx "github.com/Ramsey-B/sapling/pkg/context"
	"github.com/Ramsey-B/sapling/pkg/logging"
	"github.com/Ramsey-B/sapling/pkg/metrics"
	"github.com/Ramsey-B/sapling/pkg/tracing"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var version = "dev"

// skipStartup marks commands that never touch the database.
const skipStartup = "skip-startup"

type rootOptions struct {
	dbPath   string
	logLevel string
	envFile  string
}

// cli carries per-invocation state between the root hooks and commands.
type cli struct {
	opts     rootOptions
	app      *app
	cleanups []func()
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "sapling",
		Short:         "Query engineering roadmap readiness",
		Long:          "sapling tracks product features, capabilities, technical functions and product variants\nand answers which technology readiness level each had reached by a date.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.start(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return httperror.WrapError(http.StatusBadRequest, err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.dbPath, "db", "", "path to the SQLite database (overrides DB_PATH)")
	flags.StringVar(&c.opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.StringVar(&c.opts.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	root.AddCommand(
		newMigrateCommand(),
		newQueryCommand(),
		newRoadmapCommand(),
		newEntityCommand(kindProductFeature),
		newEntityCommand(kindCapability),
		newEntityCommand(kindTechnicalFunction),
		newEntityCommand(kindProductVariant),
		newLinkCommand(),
		newUnlinkCommand(),
		newConfigCommand(),
		newMilestoneCommand(),
		newValuesCommand(),
		newBackupCommand(),
		newVersionCommand(),
	)
	return root
}

func (c *cli) start(cmd *cobra.Command) error {
	cfg, err := config.Load(c.opts.envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.opts.dbPath != "" {
		cfg.DatabasePath = c.opts.dbPath
	}
	if c.opts.logLevel != "" {
		cfg.LogLevel = c.opts.logLevel
	}

	logger, sync, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return httperror.WrapError(http.StatusBadRequest, err)
	}
	c.cleanups = append(c.cleanups, sync)

	if cfg.TraceStdout {
		shutdown, err := tracing.InitStdout(cfg.AppName, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to start tracing: %w", err)
		}
		c.cleanups = append(c.cleanups, func() { _ = shutdown(context.Background()) })
	}

	if cfg.MetricsTextfile != "" {
		path := cfg.MetricsTextfile
		c.cleanups = append(c.cleanups, func() {
			if err := metrics.WriteTextfile(path); err != nil {
				logger.WithError(err).WithField("path", path).Warn("failed to write metrics textfile")
			}
		})
	}

	runID := uuid.NewString()
	ctx := cmd.Context()
	ctx = appctx.SetRunID(ctx, runID)
	ctx = appctx.SetCommand(ctx, cmd.CommandPath())
	ctx = appctx.SetDBPath(ctx, cfg.DatabasePath)

	if cmd.Annotations[skipStartup] == "true" {
		cmd.SetContext(ctx)
		return nil
	}

	a, err := newApp(runID, cfg, logger)
	if err != nil {
		return err
	}
	c.app = a

	ctx, err = a.scope(ctx)
	if err != nil {
		return err
	}
	if err := a.startup.Start(ctx); err != nil {
		return err
	}

	cmd.SetContext(ctx)
	return nil
}

func (c *cli) stop(ctx context.Context) error {
	var err error
	if c.app != nil {
		err = c.app.startup.Stop(ctx)
		c.app = nil
	}
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
	return err
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{}
	root := newRootCommand(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if stopErr := c.stop(ctx); err == nil {
		err = stopErr
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", errorMessage(err))
	}
	return exitCode(err)
}

// exitCode maps rejected input (any 4xx) to 2 and every other failure to 1.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case httperror.IsClientError(err):
		return 2
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var httpErr *httperror.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return err.Error()
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
