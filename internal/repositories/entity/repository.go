package entity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/tracing"
)

// EntityRepository defines the interface for entity data access
type EntityRepository interface {
	Create(ctx context.Context, entity *models.Entity) (*models.Entity, error)
	Update(ctx context.Context, entity *models.Entity) (*models.Entity, error)
	GetByID(ctx context.Context, kind models.EntityKind, id int64) (*models.Entity, error)
	GetByLabel(ctx context.Context, kind models.EntityKind, label string) (*models.Entity, error)
	List(ctx context.Context, kind models.EntityKind, conditions ...criteria.Condition) ([]models.Entity, error)
	Delete(ctx context.Context, kind models.EntityKind, label string) error
	Distinct(ctx context.Context, kind models.EntityKind, column string) ([]string, error)
	Count(ctx context.Context, kind models.EntityKind) (int, error)
}

// Repository implements EntityRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new entity repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) lookup(kind models.EntityKind) (table, error) {
	t, err := tableFor(kind)
	if err != nil {
		return table{}, httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return t, nil
}

// Create inserts an entity. A duplicate label is a conflict.
func (r *Repository) Create(ctx context.Context, entity *models.Entity) (*models.Entity, error) {
	ctx, span := tracing.StartSpan(ctx, "EntityRepository.Create")
	defer span.End()

	t, err := r.lookup(entity.Kind)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	ib := entityStruct.WithTag(t.tag, "created").InsertInto(t.name, FromEntity(entity))
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":  entity.Kind,
		"label": entity.Label,
	}).Debug("Creating entity")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, httperror.NewHTTPError(http.StatusConflict, fmt.Sprintf("%s %q already exists", entity.Kind, entity.Label))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create entity")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create entity")
	}

	if id, err := result.LastInsertId(); err == nil {
		entity.ID = id
	}

	return entity, nil
}

// Update overwrites every column of the entity with the same label.
func (r *Repository) Update(ctx context.Context, entity *models.Entity) (*models.Entity, error) {
	ctx, span := tracing.StartSpan(ctx, "EntityRepository.Update")
	defer span.End()

	t, err := r.lookup(entity.Kind)
	if err != nil {
		return nil, err
	}

	entity.UpdatedAt = time.Now().UTC()

	ub := entityStruct.WithTag(t.tag).Update(t.name, FromEntity(entity))
	ub.Where(ub.Equal("label", entity.Label))

	sql, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":  entity.Kind,
		"label": entity.Label,
	}).Debug("Updating entity")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update entity")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update entity")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s not found", entity.Kind))
	}

	return entity, nil
}

// GetByID retrieves an entity by its row id
func (r *Repository) GetByID(ctx context.Context, kind models.EntityKind, id int64) (*models.Entity, error) {
	ctx, span := tracing.StartSpan(ctx, "EntityRepository.GetByID")
	defer span.End()

	t, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}

	sb := entityStruct.WithTag("id", t.tag, "created").SelectFrom(t.name)
	sb.Where(sb.Equal("id", id))
	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind": kind,
		"id":   id,
	}).Debug("Getting entity by ID")

	return r.get(ctx, kind, sql, args)
}

// GetByLabel retrieves an entity by its unique label
func (r *Repository) GetByLabel(ctx context.Context, kind models.EntityKind, label string) (*models.Entity, error) {
	ctx, span := tracing.StartSpan(ctx, "EntityRepository.GetByLabel")
	defer span.End()

	t, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}

	sb := entityStruct.WithTag("id", t.tag, "created").SelectFrom(t.name)
	sb.Where(sb.Equal("label", label))
	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":  kind,
		"label": label,
	}).Debug("Getting entity by label")

	return r.get(ctx, kind, sql, args)
}

func (r *Repository) get(ctx context.Context, kind models.EntityKind, sql string, args []any) (*models.Entity, error) {
	var row EntityRow
	err := database.ExecutorFromContext(ctx, r.db).GetContext(ctx, &row, sql, args...)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s not found", kind))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get entity")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get entity")
	}

	entity := ToEntity(kind, &row)
	return &entity, nil
}

// List returns every entity of kind matching all conditions, ordered by label.
func (r *Repository) List(ctx context.Context, kind models.EntityKind, conditions ...criteria.Condition) ([]models.Entity, error) {
	ctx, span := tracing.StartSpan(ctx, "EntityRepository.List")
	defer span.End()

	t, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}

	columns := entityStruct.WithTag(t.tag).Columns()
	sb := entityStruct.WithTag("id", t.tag, "created").SelectFrom(t.name)
	for _, condition := range conditions {
		if !ectolinq.Contains(columns, condition.Field) {
			return nil, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s cannot be filtered by %s", kind, condition.Field))
		}
		values := condition.Values()
		if len(values) == 0 {
			continue
		}
		sb.Where(sb.In(condition.Field, database.AnyOf(values)...))
	}
	sb.OrderBy("label").Asc()

	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":       kind,
		"conditions": len(conditions),
	}).Debug("Listing entities")

	var rows []EntityRow
	err = database.ExecutorFromContext(ctx, r.db).SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list entities")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list entities")
	}

	return ToEntities(kind, rows), nil
}

// Delete removes an entity by label. Its relationships cascade.
func (r *Repository) Delete(ctx context.Context, kind models.EntityKind, label string) error {
	ctx, span := tracing.StartSpan(ctx, "EntityRepository.Delete")
	defer span.End()

	t, err := r.lookup(kind)
	if err != nil {
		return err
	}

	db := entityStruct.DeleteFrom(t.name)
	db.Where(db.Equal("label", label))
	sql, args := db.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":  kind,
		"label": label,
	}).Debug("Deleting entity")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete entity")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete entity")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s not found", kind))
	}

	return nil
}

// Distinct returns the sorted non-empty values stored in column.
func (r *Repository) Distinct(ctx context.Context, kind models.EntityKind, column string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "EntityRepository.Distinct")
	defer span.End()

	t, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}
	if !textColumns[column] || !ectolinq.Contains(entityStruct.WithTag(t.tag).Columns(), column) {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s has no filterable column %s", kind, column))
	}

	sb := database.NewSelectBuilder()
	sb.Select(column).Distinct().From(t.name)
	sb.Where(sb.IsNotNull(column), sb.NotEqual(column, ""))
	sb.OrderBy(column).Asc()
	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":   kind,
		"column": column,
	}).Debug("Listing distinct values")

	var values []string
	err = database.ExecutorFromContext(ctx, r.db).SelectContext(ctx, &values, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list distinct values")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list distinct values")
	}

	return values, nil
}

func (r *Repository) Count(ctx context.Context, kind models.EntityKind) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "EntityRepository.Count")
	defer span.End()

	t, err := r.lookup(kind)
	if err != nil {
		return 0, err
	}

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(t.name)
	sql, args := sb.Build()

	var count int
	err = database.ExecutorFromContext(ctx, r.db).GetContext(ctx, &count, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count entities")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count entities")
	}

	return count, nil
}
