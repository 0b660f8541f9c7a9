package milestone

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/tracing"
)

// MilestoneRepository defines the interface for milestone data access
type MilestoneRepository interface {
	Create(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error)
	Update(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error)
	List(ctx context.Context) ([]models.Milestone, error)
	Delete(ctx context.Context, id int64) error
}

// Repository implements MilestoneRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new milestone repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new milestone
func (r *Repository) Create(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error) {
	ctx, span := tracing.StartSpan(ctx, "MilestoneRepository.Create")
	defer span.End()

	milestone.CreatedAt = time.Now().UTC()

	ib := milestoneStruct.WithTag("write").InsertInto(milestonesTable, FromMilestone(milestone))
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"name": milestone.Name,
		"date": milestone.Date,
	}).Debug("Creating milestone")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create milestone")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create milestone")
	}

	if id, err := result.LastInsertId(); err == nil {
		milestone.ID = id
	}

	return milestone, nil
}

// Update updates an existing milestone by id
func (r *Repository) Update(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error) {
	ctx, span := tracing.StartSpan(ctx, "MilestoneRepository.Update")
	defer span.End()

	row := FromMilestone(milestone)
	ub := database.NewUpdateBuilder()
	ub.Update(milestonesTable)
	ub.Set(
		ub.Assign("name", row.Name),
		ub.Assign("date", row.Date),
		ub.Assign("description", row.Description),
	)
	ub.Where(ub.Equal("id", milestone.ID))

	sql, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":   milestone.ID,
		"name": milestone.Name,
	}).Debug("Updating milestone")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update milestone")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update milestone")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "milestone not found")
	}

	return milestone, nil
}

// List returns milestones ordered by date, then name
func (r *Repository) List(ctx context.Context) ([]models.Milestone, error) {
	ctx, span := tracing.StartSpan(ctx, "MilestoneRepository.List")
	defer span.End()

	sb := milestoneStruct.WithTag("read").SelectFrom(milestonesTable)
	sb.OrderBy("date", "name").Asc()

	sql, args := sb.Build()

	r.logger.WithContext(ctx).Debug("Listing milestones")

	var rows []MilestoneRow
	err := database.ExecutorFromContext(ctx, r.db).SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list milestones")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list milestones")
	}

	return ToMilestones(rows), nil
}

// Delete deletes a milestone
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "MilestoneRepository.Delete")
	defer span.End()

	db := milestoneStruct.DeleteFrom(milestonesTable)
	db.Where(db.Equal("id", id))

	sql, args := db.Build()

	r.logger.WithContext(ctx).WithField("id", id).Debug("Deleting milestone")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete milestone")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete milestone")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "milestone not found")
	}

	return nil
}
