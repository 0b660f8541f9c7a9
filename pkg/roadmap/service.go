package roadmap

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/metrics"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/tracing"
)

type EntitySource interface {
	List(ctx context.Context, kind models.EntityKind, conditions ...criteria.Condition) ([]models.Entity, error)
}

type MilestoneSource interface {
	List(ctx context.Context) ([]models.Milestone, error)
}

type Service struct {
	entities   EntitySource
	milestones MilestoneSource
	criteria   *criteria.Builder
	builder    *Builder
	logger     ectologger.Logger
}

func NewService(entities EntitySource, milestones MilestoneSource, criteria *criteria.Builder, builder *Builder, logger ectologger.Logger) *Service {
	return &Service{
		entities:   entities,
		milestones: milestones,
		criteria:   criteria,
		builder:    builder,
		logger:     logger,
	}
}

// BuildRoadmap loads the entities of the view, filters them and lays them out.
// The swimlane filter only narrows capabilities.
func (s *Service) BuildRoadmap(ctx context.Context, view View, filters criteria.Filters) (*Timeline, error) {
	ctx, span := tracing.StartSpan(ctx, "RoadmapService.BuildRoadmap")
	defer span.End()

	var entities []models.Entity
	for _, kind := range view.Kinds() {
		loaded, err := s.entities.List(ctx, kind)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("kind", kind).Error("failed to load roadmap entities")
			tracing.RecordError(ctx, err)
			return nil, fmt.Errorf("failed to load %s entities: %w", kind, err)
		}

		f := filters
		if kind != models.KindCapability {
			f = filters.WithoutSwimlane()
		}
		entities = append(entities, s.criteria.Apply(f, loaded)...)
	}

	milestones, err := s.milestones.List(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to load milestones")
		return nil, fmt.Errorf("failed to load milestones: %w", err)
	}

	timeline := s.builder.Build(view, entities, milestones)
	metrics.RecordRoadmap(string(view), len(timeline.Items), timeline.Omitted)

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"view":    view,
		"items":   len(timeline.Items),
		"omitted": timeline.Omitted,
	}).Info("built roadmap")

	return &timeline, nil
}
