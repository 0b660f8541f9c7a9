// Package catalog holds the configuration codes offered for each filter and
// seeds them into an empty store.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/tracing"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Configurations []models.Configuration `yaml:"configurations"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i := range c.Configurations {
		if _, err := models.Validate(c.Configurations[i]); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	return &c, nil
}

// Store is the slice of the configuration repository the seeder needs.
type Store interface {
	Create(ctx context.Context, configuration *models.Configuration) (*models.Configuration, error)
	Count(ctx context.Context) (int, error)
}

type Seeder struct {
	store  Store
	logger ectologger.Logger
}

func NewSeeder(store Store, logger ectologger.Logger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

// Seed inserts the catalog when the store is empty and returns how many codes
// were added. With force it also fills in codes missing from a non-empty
// store, leaving existing ones alone.
func (s *Seeder) Seed(ctx context.Context, c *Catalog, force bool) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "Seeder.Seed")
	defer span.End()

	existing, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 && !force {
		s.logger.WithContext(ctx).WithField("existing", existing).Debug("catalog already seeded")
		return 0, nil
	}

	added := 0
	for _, configuration := range c.Configurations {
		_, err := s.store.Create(ctx, &configuration)
		if httperror.IsStatus(err, 409) {
			continue
		}
		if err != nil {
			return added, err
		}
		added++
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"added":    added,
		"existing": existing,
	}).Info("seeded configuration catalog")

	return added, nil
}
