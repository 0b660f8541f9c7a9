package roadmap

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntities map[models.EntityKind][]models.Entity

func (f fakeEntities) List(ctx context.Context, kind models.EntityKind, conditions ...criteria.Condition) ([]models.Entity, error) {
	return f[kind], nil
}

type fakeMilestones struct {
	milestones []models.Milestone
	err        error
}

func (f fakeMilestones) List(ctx context.Context) ([]models.Milestone, error) {
	return f.milestones, f.err
}

func newService(entities fakeEntities, milestones fakeMilestones) *Service {
	logger := ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
	return NewService(entities, milestones, criteria.NewBuilder(nil), NewBuilder(0), logger)
}

func TestBuildRoadmap(t *testing.T) {
	pf := entity("PF-1", "2024-02-01", "", "")
	pf.Platform = models.StringPtr("Terberg-1")
	other := entity("PF-2", "2024-01-01", "", "")
	other.Platform = models.StringPtr("Terberg-2")

	capability := entity("CAP-1", "2024-03-01", "", "")
	capability.Kind = models.KindCapability
	capability.Platform = models.StringPtr("Terberg-1.1")
	capability.Swimlane = models.StringPtr("Planning")

	entities := fakeEntities{
		models.KindProductFeature: {pf, other},
		models.KindCapability:     {capability},
	}
	svc := newService(entities, fakeMilestones{milestones: []models.Milestone{{Name: "Pilot", Date: "2024-05-01"}}})

	timeline, err := svc.BuildRoadmap(context.Background(), ViewBoth, criteria.Filters{Platform: "Terberg-1.1", Swimlane: "Planning"})
	require.NoError(t, err)
	require.Len(t, timeline.Items, 2)
	assert.Equal(t, "PF-1", timeline.Items[0].Label)
	assert.Equal(t, models.KindCapability, timeline.Items[1].Kind)
	assert.Len(t, timeline.Milestones, 1)

	timeline, err = svc.BuildRoadmap(context.Background(), ViewCapabilities, criteria.Filters{Swimlane: "Perception"})
	require.NoError(t, err)
	assert.Empty(t, timeline.Items)
}

func TestBuildRoadmapMilestoneError(t *testing.T) {
	svc := newService(fakeEntities{}, fakeMilestones{err: errors.New("locked")})

	_, err := svc.BuildRoadmap(context.Background(), ViewProductFeatures, criteria.Filters{})
	assert.ErrorContains(t, err, "locked")
}
