package relationship

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/tracing"
)

// RelationshipRepository defines the interface for link data access
type RelationshipRepository interface {
	Link(ctx context.Context, kind models.RelationshipKind, leftLabel, rightLabel string) (*models.Link, error)
	Unlink(ctx context.Context, kind models.RelationshipKind, leftLabel, rightLabel string) error
	List(ctx context.Context, kind models.RelationshipKind) ([]models.Link, error)
	Clear(ctx context.Context, kind models.RelationshipKind) error
	ListFor(ctx context.Context, kind models.RelationshipKind, entityKind models.EntityKind, label string) ([]models.Link, error)
}

// Repository implements RelationshipRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new relationship repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) lookup(kind models.RelationshipKind) (junction, error) {
	j, err := junctionFor(kind)
	if err != nil {
		return junction{}, httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return j, nil
}

func (r *Repository) resolveID(ctx context.Context, table, label string) (int64, error) {
	sb := database.NewSelectBuilder()
	sb.Select("id").From(table)
	sb.Where(sb.Equal("label", label))
	sql, args := sb.Build()

	var id int64
	err := database.ExecutorFromContext(ctx, r.db).GetContext(ctx, &id, sql, args...)
	if err != nil {
		if database.IsNoRows(err) {
			return 0, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s %q not found", table, label))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to resolve label")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve label")
	}
	return id, nil
}

func (r *Repository) resolve(ctx context.Context, j junction, leftLabel, rightLabel string) (int64, int64, error) {
	leftID, err := r.resolveID(ctx, j.leftTable, leftLabel)
	if err != nil {
		return 0, 0, err
	}
	rightID, err := r.resolveID(ctx, j.rightTable, rightLabel)
	if err != nil {
		return 0, 0, err
	}
	return leftID, rightID, nil
}

// Link connects two entities by label. Linking an existing pair is a no-op.
func (r *Repository) Link(ctx context.Context, kind models.RelationshipKind, leftLabel, rightLabel string) (*models.Link, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationshipRepository.Link")
	defer span.End()

	j, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}

	leftID, rightID, err := r.resolve(ctx, j, leftLabel, rightLabel)
	if err != nil {
		return nil, err
	}

	ib := database.NewInsertBuilder().
		InsertInto(j.name).
		Cols(j.leftCol, j.rightCol).
		Values(leftID, rightID).
		OnConflictDoNothing(j.leftCol, j.rightCol)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":  kind,
		"left":  leftLabel,
		"right": rightLabel,
	}).Debug("Linking entities")

	_, err = database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to link entities")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to link entities")
	}

	return &models.Link{
		Kind:       kind,
		LeftID:     leftID,
		LeftLabel:  leftLabel,
		RightID:    rightID,
		RightLabel: rightLabel,
	}, nil
}

func (r *Repository) Unlink(ctx context.Context, kind models.RelationshipKind, leftLabel, rightLabel string) error {
	ctx, span := tracing.StartSpan(ctx, "RelationshipRepository.Unlink")
	defer span.End()

	j, err := r.lookup(kind)
	if err != nil {
		return err
	}

	leftID, rightID, err := r.resolve(ctx, j, leftLabel, rightLabel)
	if err != nil {
		return err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(j.name)
	db.Where(db.Equal(j.leftCol, leftID), db.Equal(j.rightCol, rightID))
	sql, args := db.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":  kind,
		"left":  leftLabel,
		"right": rightLabel,
	}).Debug("Unlinking entities")

	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to unlink entities")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to unlink entities")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "link not found")
	}

	return nil
}

// Clear removes every link of kind.
func (r *Repository) Clear(ctx context.Context, kind models.RelationshipKind) error {
	ctx, span := tracing.StartSpan(ctx, "RelationshipRepository.Clear")
	defer span.End()

	j, err := r.lookup(kind)
	if err != nil {
		return err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(j.name)
	sql, args := db.Build()

	r.logger.WithContext(ctx).WithField("kind", kind).Debug("Clearing links")

	if _, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to clear links")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to clear links")
	}

	return nil
}

func (r *Repository) selectLinks(j junction) *database.SelectBuilder {
	sb := database.NewSelectBuilder()
	sb.Select("l.id AS left_id", "l.label AS left_label", "r.id AS right_id", "r.label AS right_label")
	sb.From(j.name + " AS j")
	sb.Join(j.leftTable+" AS l", "l.id = j."+j.leftCol)
	sb.Join(j.rightTable+" AS r", "r.id = j."+j.rightCol)
	sb.OrderBy("l.label", "r.label").Asc()
	return sb
}

func (r *Repository) list(ctx context.Context, kind models.RelationshipKind, sb *database.SelectBuilder) ([]models.Link, error) {
	sql, args := sb.Build()

	var rows []LinkRow
	err := database.ExecutorFromContext(ctx, r.db).SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list links")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list links")
	}

	return ToLinks(kind, rows), nil
}

// List returns every link of kind ordered by left then right label.
func (r *Repository) List(ctx context.Context, kind models.RelationshipKind) ([]models.Link, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationshipRepository.List")
	defer span.End()

	j, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}

	r.logger.WithContext(ctx).WithField("kind", kind).Debug("Listing links")

	return r.list(ctx, kind, r.selectLinks(j))
}

// ListFor returns the links of kind that touch the entity with label.
// entityKind picks which end of the link the label is matched on.
func (r *Repository) ListFor(ctx context.Context, kind models.RelationshipKind, entityKind models.EntityKind, label string) ([]models.Link, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationshipRepository.ListFor")
	defer span.End()

	j, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}

	sb := r.selectLinks(j)
	switch left, right := kind.Ends(); entityKind {
	case left:
		sb.Where(sb.Equal("l.label", label))
	case right:
		sb.Where(sb.Equal("r.label", label))
	default:
		return nil, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s links do not include %s", kind, entityKind))
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":        kind,
		"entity_kind": entityKind,
		"label":       label,
	}).Debug("Listing links for entity")

	return r.list(ctx, kind, sb)
}
