package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	items []models.Configuration
}

func (m *memoryStore) Create(_ context.Context, c *models.Configuration) (*models.Configuration, error) {
	for _, item := range m.items {
		if item.ConfigType == c.ConfigType && item.Code == c.Code {
			return nil, httperror.NewHTTPError(409, "exists")
		}
	}
	m.items = append(m.items, *c)
	return c, nil
}

func (m *memoryStore) Count(context.Context) (int, error) {
	return len(m.items), nil
}

func nopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Len(t, c.Configurations, 17)

	counts := map[string]int{}
	for _, item := range c.Configurations {
		counts[item.ConfigType]++
	}
	assert.Equal(t, map[string]int{
		models.ConfigTypePlatform:    2,
		models.ConfigTypeODD:         3,
		models.ConfigTypeEnvironment: 5,
		models.ConfigTypeTrailer:     4,
		models.ConfigTypeTRL:         3,
	}, counts)
	assert.Equal(t, "Terberg-1", c.Configurations[0].Code)
}

func TestLoad(t *testing.T) {
	t.Run("empty path is the default", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Len(t, c.Configurations, 17)
	})

	t.Run("file override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("configurations:\n  - config_type: ODD\n    code: CFG-ODD-9\n"), 0o600))

		c, err := Load(path)
		require.NoError(t, err)
		require.Len(t, c.Configurations, 1)
		assert.Equal(t, "CFG-ODD-9", c.Configurations[0].Code)
		assert.Nil(t, c.Configurations[0].Description)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := Parse([]byte("configurations:\n  - config_type: Colour\n    code: red\n"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestSeed(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty store is seeded", func(t *testing.T) {
		store := &memoryStore{}
		added, err := NewSeeder(store, nopLogger()).Seed(ctx, c, false)
		require.NoError(t, err)
		assert.Equal(t, 17, added)
	})

	t.Run("non-empty store is left alone", func(t *testing.T) {
		store := &memoryStore{items: []models.Configuration{{ConfigType: models.ConfigTypeODD, Code: "CFG-ODD-1"}}}
		added, err := NewSeeder(store, nopLogger()).Seed(ctx, c, false)
		require.NoError(t, err)
		assert.Zero(t, added)
		assert.Len(t, store.items, 1)
	})

	t.Run("force fills the gaps", func(t *testing.T) {
		store := &memoryStore{items: []models.Configuration{{ConfigType: models.ConfigTypeODD, Code: "CFG-ODD-1"}}}
		added, err := NewSeeder(store, nopLogger()).Seed(ctx, c, true)
		require.NoError(t, err)
		assert.Equal(t, 16, added)
		assert.Len(t, store.items, 17)
	})
}
