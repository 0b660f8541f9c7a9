// Package criteria turns categorical filters into conditions over entities.
// Versioned filters are widened through a versioning.Matcher before they are
// evaluated, so the same conditions drive in-memory filtering and SQL.
package criteria

import (
	"sort"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/versioning"
)

// Supported operators
const (
	OpEquals = ""    // default, exact match
	OpIn     = "$in" // value is one of a set
)

// Filters holds the requested value per attribute. Empty means no constraint.
type Filters struct {
	Platform    string `json:"platform,omitempty"`
	ODD         string `json:"odd,omitempty"`
	Environment string `json:"environment,omitempty"`
	Trailer     string `json:"trailer,omitempty"`
	Swimlane    string `json:"swimlane,omitempty"`
}

func (f Filters) IsEmpty() bool {
	return f == Filters{}
}

// WithoutSwimlane drops the swimlane filter, which only applies to capabilities.
func (f Filters) WithoutSwimlane() Filters {
	f.Swimlane = ""
	return f
}

// Condition represents a single field condition to evaluate
type Condition struct {
	Field    string
	Operator string
	Value    any
}

// Values returns the codes a condition accepts.
func (c Condition) Values() []string {
	switch v := c.Value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	}
	return nil
}

type Builder struct {
	matcher *versioning.Matcher
}

func NewBuilder(matcher *versioning.Matcher) *Builder {
	if matcher == nil {
		matcher = versioning.DefaultMatcher()
	}
	return &Builder{matcher: matcher}
}

// Conditions expands each present filter. Order is fixed: platform, odd,
// environment, trailer, swimlane.
func (b *Builder) Conditions(f Filters) []Condition {
	var conditions []Condition

	versioned := []struct {
		field  string
		family versioning.Family
		value  string
	}{
		{"platform", versioning.FamilyPlatform, f.Platform},
		{"odd", versioning.FamilyODD, f.ODD},
		{"environment", versioning.FamilyEnvironment, f.Environment},
		{"trailer", versioning.FamilyTrailer, f.Trailer},
	}
	for _, v := range versioned {
		codes := b.matcher.Expand(v.family, v.value)
		if len(codes) == 0 {
			continue
		}
		conditions = append(conditions, Condition{Field: v.field, Operator: OpIn, Value: codes})
	}

	if f.Swimlane != "" {
		conditions = append(conditions, Condition{Field: "swimlane", Operator: OpEquals, Value: f.Swimlane})
	}

	return conditions
}

// Matches reports whether the entity satisfies every condition. An unset
// attribute never satisfies a condition.
func Matches(entity models.Entity, conditions []Condition) bool {
	for _, cond := range conditions {
		if !evaluateCondition(entity, cond) {
			return false
		}
	}
	return true
}

func evaluateCondition(entity models.Entity, cond Condition) bool {
	value, exists := entity.Attribute(cond.Field)
	if !exists {
		return false
	}

	switch cond.Operator {
	case OpEquals:
		expected, ok := cond.Value.(string)
		return ok && value == expected
	case OpIn:
		return ectolinq.Contains(cond.Values(), value)
	default:
		return false
	}
}

func (b *Builder) Predicate(f Filters) func(models.Entity) bool {
	conditions := b.Conditions(f)
	return func(e models.Entity) bool {
		return Matches(e, conditions)
	}
}

// Apply returns the matching entities in a new slice ordered by label.
func (b *Builder) Apply(f Filters, entities []models.Entity) []models.Entity {
	predicate := b.Predicate(f)

	matched := ectolinq.Filter(entities, predicate)
	if matched == nil {
		matched = []models.Entity{}
	}

	SortByLabel(matched)
	return matched
}

// SortByLabel orders entities by label, byte-wise ascending.
func SortByLabel(entities []models.Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Label < entities[j].Label
	})
}
