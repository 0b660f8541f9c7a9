package configuration

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/tracing"
)

// ConfigurationRepository defines the interface for catalog data access
type ConfigurationRepository interface {
	Create(ctx context.Context, configuration *models.Configuration) (*models.Configuration, error)
	Update(ctx context.Context, configuration *models.Configuration) (*models.Configuration, error)
	List(ctx context.Context, configType string) ([]models.Configuration, error)
	Delete(ctx context.Context, configType, code string) error
	Count(ctx context.Context) (int, error)
}

// Repository implements ConfigurationRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new configuration repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create adds a code to the catalog. A duplicate (type, code) pair is a conflict.
func (r *Repository) Create(ctx context.Context, configuration *models.Configuration) (*models.Configuration, error) {
	ctx, span := tracing.StartSpan(ctx, "ConfigurationRepository.Create")
	defer span.End()

	configuration.CreatedAt = time.Now().UTC()

	ib := configurationStruct.WithTag("write").InsertInto(configurationsTable, FromConfiguration(configuration))
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"config_type": configuration.ConfigType,
		"code":        configuration.Code,
	}).Debug("Creating configuration")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, httperror.NewHTTPError(http.StatusConflict, fmt.Sprintf("%s code %q already exists", configuration.ConfigType, configuration.Code))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create configuration")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create configuration")
	}

	if id, err := result.LastInsertId(); err == nil {
		configuration.ID = id
	}

	return configuration, nil
}

// Update replaces the description of an existing (type, code) pair.
func (r *Repository) Update(ctx context.Context, configuration *models.Configuration) (*models.Configuration, error) {
	ctx, span := tracing.StartSpan(ctx, "ConfigurationRepository.Update")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(configurationsTable)
	ub.Set(ub.Assign("description", FromConfiguration(configuration).Description))
	ub.Where(
		ub.Equal("config_type", configuration.ConfigType),
		ub.Equal("code", configuration.Code),
	)

	sql, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"config_type": configuration.ConfigType,
		"code":        configuration.Code,
	}).Debug("Updating configuration")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update configuration")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update configuration")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "configuration not found")
	}

	return configuration, nil
}

// List returns the catalog ordered by type and code. An empty configType
// lists every type.
func (r *Repository) List(ctx context.Context, configType string) ([]models.Configuration, error) {
	ctx, span := tracing.StartSpan(ctx, "ConfigurationRepository.List")
	defer span.End()

	sb := configurationStruct.WithTag("read").SelectFrom(configurationsTable)
	if configType != "" {
		sb.Where(sb.Equal("config_type", configType))
	}
	sb.OrderBy("config_type", "code").Asc()

	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithField("config_type", configType).Debug("Listing configurations")

	var rows []ConfigurationRow
	err := database.ExecutorFromContext(ctx, r.db).SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list configurations")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list configurations")
	}

	return ToConfigurations(rows), nil
}

func (r *Repository) Delete(ctx context.Context, configType, code string) error {
	ctx, span := tracing.StartSpan(ctx, "ConfigurationRepository.Delete")
	defer span.End()

	db := configurationStruct.DeleteFrom(configurationsTable)
	db.Where(
		db.Equal("config_type", configType),
		db.Equal("code", code),
	)

	sql, args := db.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"config_type": configType,
		"code":        code,
	}).Debug("Deleting configuration")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete configuration")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete configuration")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "configuration not found")
	}

	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "ConfigurationRepository.Count")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(configurationsTable)
	sql, args := sb.Build()

	var count int
	err := database.ExecutorFromContext(ctx, r.db).GetContext(ctx, &count, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count configurations")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count configurations")
	}

	return count, nil
}
