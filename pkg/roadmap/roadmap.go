// Package roadmap lays entity milestones out as timeline items for a
// Gantt-style view.
package roadmap

import (
	"fmt"
	"sort"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/trl"
)

const DefaultMaxItems = 50

type View string

const (
	ViewProductFeatures View = "pf"
	ViewCapabilities    View = "cap"
	ViewBoth            View = "both"
)

func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewProductFeatures, ViewCapabilities, ViewBoth:
		return View(s), nil
	case "":
		return ViewProductFeatures, nil
	}
	return "", fmt.Errorf("unknown roadmap view %q, expected pf, cap or both", s)
}

// Kinds lists the entity kinds a view draws from.
func (v View) Kinds() []models.EntityKind {
	switch v {
	case ViewCapabilities:
		return []models.EntityKind{models.KindCapability}
	case ViewBoth:
		return []models.EntityKind{models.KindProductFeature, models.KindCapability}
	}
	return []models.EntityKind{models.KindProductFeature}
}

type Point struct {
	Level trl.Level `json:"level"`
	Date  string    `json:"date"`
}

// Item is one bar of the timeline. Points are ordered by date. Start and End
// are the first and last point dates.
type Item struct {
	Label  string            `json:"label"`
	Name   string            `json:"name"`
	Kind   models.EntityKind `json:"kind"`
	Points []Point           `json:"points"`
	Start  string            `json:"start"`
	End    string            `json:"end"`
}

type Timeline struct {
	View       View               `json:"view"`
	Items      []Item             `json:"items"`
	Total      int                `json:"total"`
	Omitted    int                `json:"omitted"`
	Truncated  bool               `json:"truncated"`
	Milestones []models.Milestone `json:"milestones"`
}

type Builder struct {
	maxItems int
}

func NewBuilder(maxItems int) *Builder {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Builder{maxItems: maxItems}
}

// Build keeps entities with at least one valid milestone date, orders them by
// their earliest date and caps the result at the builder's limit. Omitted
// reports how many eligible items were cut.
func (b *Builder) Build(view View, entities []models.Entity, milestones []models.Milestone) Timeline {
	items := make([]Item, 0, len(entities))
	for _, entity := range entities {
		if item, ok := toItem(entity); ok {
			items = append(items, item)
		}
	}

	ectolinq.SortWhere(items, func(a, c Item) bool {
		if a.Start != c.Start {
			return a.Start < c.Start
		}
		if a.Label != c.Label {
			return a.Label < c.Label
		}
		return a.Kind < c.Kind
	})

	timeline := Timeline{
		View:       view,
		Total:      len(items),
		Milestones: sortMilestones(milestones),
	}
	timeline.Items = ectolinq.Take(items, b.maxItems)
	timeline.Omitted = timeline.Total - len(timeline.Items)
	timeline.Truncated = timeline.Omitted > 0
	return timeline
}

func toItem(entity models.Entity) (Item, bool) {
	dated := trl.Valid(entity.Milestones())
	if len(dated) == 0 {
		return Item{}, false
	}

	sort.SliceStable(dated, func(i, j int) bool {
		if !dated[i].Date.Equal(dated[j].Date) {
			return dated[i].Date.Before(dated[j].Date)
		}
		return dated[i].Level < dated[j].Level
	})

	points := ectolinq.Map(dated, func(d trl.Dated) Point {
		return Point{Level: d.Level, Date: d.Date.Format(trl.DateLayout)}
	})

	return Item{
		Label:  entity.Label,
		Name:   entity.Name,
		Kind:   entity.Kind,
		Points: points,
		Start:  points[0].Date,
		End:    points[len(points)-1].Date,
	}, true
}

func sortMilestones(milestones []models.Milestone) []models.Milestone {
	out := append([]models.Milestone{}, milestones...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
