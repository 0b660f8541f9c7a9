package startup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDependency struct {
	name      string
	dependsOn []string
	failures  int
	log       *[]string
}

func (f *fakeDependency) GetName() string     { return f.name }
func (f *fakeDependency) DependsOn() []string { return f.dependsOn }

func (f *fakeDependency) Start(ctx context.Context) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("not ready")
	}
	*f.log = append(*f.log, "start:"+f.name)
	return nil
}

func (f *fakeDependency) Stop(ctx context.Context) error {
	*f.log = append(*f.log, "stop:"+f.name)
	return nil
}

func newTestStartup(maxAttempts int) *Startup {
	s := NewStartup(ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {}), maxAttempts)
	s.backoffUnit = time.Millisecond
	return s
}

func TestStartup(t *testing.T) {
	t.Run("starts dependencies before dependents and stops in reverse", func(t *testing.T) {
		var log []string
		s := newTestStartup(1)
		s.AddDependency(&fakeDependency{name: "seed", dependsOn: []string{"migrations"}, log: &log})
		s.AddDependency(&fakeDependency{name: "database", log: &log})
		s.AddDependency(&fakeDependency{name: "migrations", dependsOn: []string{"database"}, log: &log})

		require.NoError(t, s.Start(context.Background()))
		assert.Equal(t, []string{"start:database", "start:migrations", "start:seed"}, log)
		assert.Equal(t, StartupStatusStarted, s.Status("seed"))

		log = nil
		require.NoError(t, s.Stop(context.Background()))
		assert.Equal(t, []string{"stop:seed", "stop:migrations", "stop:database"}, log)
		assert.Equal(t, StartupStatusStopped, s.Status("database"))
	})

	t.Run("retries until the dependency starts", func(t *testing.T) {
		var log []string
		s := newTestStartup(3)
		s.AddDependency(&fakeDependency{name: "database", failures: 2, log: &log})

		require.NoError(t, s.Start(context.Background()))
		assert.Equal(t, []string{"start:database"}, log)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		var log []string
		s := newTestStartup(2)
		s.AddDependency(&fakeDependency{name: "database", failures: 5, log: &log})

		err := s.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 attempts")
		assert.Equal(t, StartupStatusFailed, s.Status("database"))
	})

	t.Run("unknown dependency", func(t *testing.T) {
		var log []string
		s := newTestStartup(1)
		s.AddDependency(&fakeDependency{name: "seed", dependsOn: []string{"database"}, log: &log})

		assert.Error(t, s.Start(context.Background()))
	})

	t.Run("cycle", func(t *testing.T) {
		var log []string
		s := newTestStartup(1)
		s.AddDependency(&fakeDependency{name: "a", dependsOn: []string{"b"}, log: &log})
		s.AddDependency(&fakeDependency{name: "b", dependsOn: []string{"a"}, log: &log})

		err := s.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})
}
