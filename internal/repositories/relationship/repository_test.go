package relationship

import (
	"context"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/sapling/internal/repositories/entity"
	"github.com/Ramsey-B/sapling/internal/repositories/repotest"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	links    *Repository
	entities *entity.Repository
}

func newFixture(t *testing.T) fixture {
	db := repotest.Open(t)
	f := fixture{
		links:    NewRepository(db, repotest.Logger()),
		entities: entity.NewRepository(db, repotest.Logger()),
	}

	ctx := context.Background()
	for _, e := range []models.Entity{
		{Kind: models.KindProductFeature, Label: "PF-1", Name: "Feature 1"},
		{Kind: models.KindProductFeature, Label: "PF-2", Name: "Feature 2"},
		{Kind: models.KindCapability, Label: "CAP-1", Name: "Capability 1"},
		{Kind: models.KindCapability, Label: "CAP-2", Name: "Capability 2"},
	} {
		_, err := f.entities.Create(ctx, &e)
		require.NoError(t, err)
	}
	return f
}

func TestLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	link, err := f.links.Link(ctx, models.RelationshipPFCap, "PF-1", "CAP-2")
	require.NoError(t, err)
	assert.NotZero(t, link.LeftID)
	assert.NotZero(t, link.RightID)

	_, err = f.links.Link(ctx, models.RelationshipPFCap, "PF-1", "CAP-2")
	require.NoError(t, err, "linking twice is ignored")

	_, err = f.links.Link(ctx, models.RelationshipPFCap, "PF-1", "CAP-1")
	require.NoError(t, err)

	links, err := f.links.List(ctx, models.RelationshipPFCap)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "CAP-1", links[0].RightLabel)
	assert.Equal(t, "CAP-2", links[1].RightLabel)
	assert.Equal(t, models.RelationshipPFCap, links[0].Kind)
}

func TestLink_MissingEnd(t *testing.T) {
	f := newFixture(t)

	_, err := f.links.Link(context.Background(), models.RelationshipPFCap, "PF-1", "CAP-9")
	assert.True(t, httperror.IsNotFound(err))

	_, err = f.links.Link(context.Background(), "pf-tf", "PF-1", "CAP-1")
	assert.True(t, httperror.IsBadRequest(err))
}

func TestUnlink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.links.Link(ctx, models.RelationshipPFCap, "PF-1", "CAP-1")
	require.NoError(t, err)

	require.NoError(t, f.links.Unlink(ctx, models.RelationshipPFCap, "PF-1", "CAP-1"))
	assert.True(t, httperror.IsNotFound(f.links.Unlink(ctx, models.RelationshipPFCap, "PF-1", "CAP-1")))
}

func TestListFor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, pair := range [][2]string{{"PF-1", "CAP-1"}, {"PF-2", "CAP-1"}, {"PF-2", "CAP-2"}} {
		_, err := f.links.Link(ctx, models.RelationshipPFCap, pair[0], pair[1])
		require.NoError(t, err)
	}

	byFeature, err := f.links.ListFor(ctx, models.RelationshipPFCap, models.KindProductFeature, "PF-2")
	require.NoError(t, err)
	assert.Len(t, byFeature, 2)

	byCapability, err := f.links.ListFor(ctx, models.RelationshipPFCap, models.KindCapability, "CAP-1")
	require.NoError(t, err)
	require.Len(t, byCapability, 2)
	assert.Equal(t, "PF-1", byCapability[0].LeftLabel)
	assert.Equal(t, "PF-2", byCapability[1].LeftLabel)

	_, err = f.links.ListFor(ctx, models.RelationshipPFCap, models.KindProductVariant, "PV-1")
	assert.True(t, httperror.IsBadRequest(err))
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.links.Link(ctx, models.RelationshipPFCap, "PF-1", "CAP-1")
	require.NoError(t, err)

	require.NoError(t, f.entities.Delete(ctx, models.KindProductFeature, "PF-1"))

	links, err := f.links.List(ctx, models.RelationshipPFCap)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.links.Link(ctx, models.RelationshipPFCap, "PF-1", "CAP-1")
	require.NoError(t, err)
	_, err = f.links.Link(ctx, models.RelationshipPFCap, "PF-2", "CAP-2")
	require.NoError(t, err)

	require.NoError(t, f.links.Clear(ctx, models.RelationshipPFCap))

	links, err := f.links.List(ctx, models.RelationshipPFCap)
	require.NoError(t, err)
	assert.Empty(t, links)
}
