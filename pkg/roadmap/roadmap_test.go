package roadmap

import (
	"fmt"
	"testing"
	"time"

	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/trl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entity(label string, trl3, trl6, trl9 string) models.Entity {
	return models.Entity{
		Kind:     models.KindProductFeature,
		Label:    label,
		Name:     "Name " + label,
		TRL3Date: models.StringPtr(trl3),
		TRL6Date: models.StringPtr(trl6),
		TRL9Date: models.StringPtr(trl9),
	}
}

func dated(n int) []models.Entity {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Entity, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, entity(fmt.Sprintf("PF-%03d", i), start.AddDate(0, 0, i).Format(trl.DateLayout), "", ""))
	}
	return out
}

func TestBuildTruncation(t *testing.T) {
	b := NewBuilder(DefaultMaxItems)

	t.Run("75 eligible items", func(t *testing.T) {
		timeline := b.Build(ViewProductFeatures, dated(75), nil)
		require.Len(t, timeline.Items, 50)
		assert.Equal(t, 75, timeline.Total)
		assert.Equal(t, 25, timeline.Omitted)
		assert.True(t, timeline.Truncated)
		assert.Equal(t, "PF-000", timeline.Items[0].Label)
		assert.Equal(t, "PF-049", timeline.Items[49].Label)
	})

	t.Run("30 eligible items", func(t *testing.T) {
		timeline := b.Build(ViewProductFeatures, dated(30), nil)
		assert.Len(t, timeline.Items, 30)
		assert.Equal(t, 0, timeline.Omitted)
		assert.False(t, timeline.Truncated)
	})

	t.Run("custom cap", func(t *testing.T) {
		timeline := NewBuilder(5).Build(ViewProductFeatures, dated(8), nil)
		assert.Len(t, timeline.Items, 5)
		assert.Equal(t, 3, timeline.Omitted)
	})
}

func TestBuildItems(t *testing.T) {
	entities := []models.Entity{
		entity("PF-B", "2024-03-01", "2024-01-15", ""),
		entity("PF-NONE", "", "", ""),
		entity("PF-BAD", "someday", "", ""),
		entity("PF-A", "2024-01-15", "2024-06-01", "2025-01-01"),
		entity("PF-C", "not a date", "2024-09-01", ""),
	}

	timeline := NewBuilder(0).Build(ViewProductFeatures, entities, nil)
	require.Len(t, timeline.Items, 3)
	assert.Equal(t, 3, timeline.Total)

	labels := []string{timeline.Items[0].Label, timeline.Items[1].Label, timeline.Items[2].Label}
	assert.Equal(t, []string{"PF-A", "PF-B", "PF-C"}, labels)

	a := timeline.Items[0]
	assert.Equal(t, "2024-01-15", a.Start)
	assert.Equal(t, "2025-01-01", a.End)
	assert.Equal(t, []Point{
		{Level: trl.TRL3, Date: "2024-01-15"},
		{Level: trl.TRL6, Date: "2024-06-01"},
		{Level: trl.TRL9, Date: "2025-01-01"},
	}, a.Points)

	b := timeline.Items[1]
	assert.Equal(t, []Point{
		{Level: trl.TRL6, Date: "2024-01-15"},
		{Level: trl.TRL3, Date: "2024-03-01"},
	}, b.Points)

	c := timeline.Items[2]
	assert.Equal(t, []Point{{Level: trl.TRL6, Date: "2024-09-01"}}, c.Points)
	assert.Equal(t, c.Start, c.End)
}

func TestBuildMilestones(t *testing.T) {
	milestones := []models.Milestone{
		{Name: "Pilot", Date: "2024-09-01"},
		{Name: "Kickoff", Date: "2024-01-01"},
	}

	timeline := NewBuilder(0).Build(ViewBoth, nil, milestones)
	assert.Empty(t, timeline.Items)
	assert.NotNil(t, timeline.Items)
	require.Len(t, timeline.Milestones, 2)
	assert.Equal(t, "Kickoff", timeline.Milestones[0].Name)
	assert.Equal(t, "Pilot", milestones[0].Name)
}

func TestParseView(t *testing.T) {
	view, err := ParseView("cap")
	require.NoError(t, err)
	assert.Equal(t, []models.EntityKind{models.KindCapability}, view.Kinds())

	view, err = ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewProductFeatures, view)

	assert.Len(t, ViewBoth.Kinds(), 2)

	_, err = ParseView("tf")
	assert.Error(t, err)
}
