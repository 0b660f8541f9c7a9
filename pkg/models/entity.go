package models

import (
	"time"

	"github.com/Ramsey-B/sapling/pkg/trl"
)

type EntityKind string

const (
	KindProductFeature    EntityKind = "product_feature"
	KindCapability        EntityKind = "capability"
	KindTechnicalFunction EntityKind = "technical_function"
	KindProductVariant    EntityKind = "product_variant"
)

// Entity is a row from any of the four entity tables. Columns a table does
// not have stay nil.
type Entity struct {
	ID          int64      `json:"id" db:"id"`
	Kind        EntityKind `json:"-" db:"-"`
	Label       string     `json:"label" db:"label" validate:"required"`
	Name        string     `json:"name" db:"name" validate:"required"`
	Platform    *string    `json:"platform" db:"platform"`
	ODD         *string    `json:"odd" db:"odd"`
	Environment *string    `json:"environment" db:"environment"`
	Trailer     *string    `json:"trailer" db:"trailer"`
	Details     *string    `json:"details" db:"details"`
	Comments    *string    `json:"comments,omitempty" db:"comments"`
	WhenDate    *string    `json:"when_date,omitempty" db:"when_date"`
	StartDate   *string    `json:"start_date,omitempty" db:"start_date" validate:"omitempty,datetime=2006-01-02"`
	TRL3Date    *string    `json:"trl3_date,omitempty" db:"trl3_date" validate:"omitempty,datetime=2006-01-02"`
	TRL6Date    *string    `json:"trl6_date,omitempty" db:"trl6_date" validate:"omitempty,datetime=2006-01-02"`
	TRL9Date    *string    `json:"trl9_date,omitempty" db:"trl9_date" validate:"omitempty,datetime=2006-01-02"`

	// capabilities and technical functions
	Swimlane     *string  `json:"swimlane,omitempty" db:"swimlane"`
	SL           *string  `json:"sl,omitempty" db:"sl"`
	Maj          *float64 `json:"maj,omitempty" db:"maj"`
	Min          *float64 `json:"min,omitempty" db:"min"`
	Dependencies *string  `json:"dependencies,omitempty" db:"dependencies"`
	Dependents   *string  `json:"dependents,omitempty" db:"dependents"`
	Next         *string  `json:"next,omitempty" db:"next"`

	// product variants
	TRL     *string `json:"trl,omitempty" db:"trl"`
	DueDate *string `json:"due_date,omitempty" db:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Owner   *string `json:"owner,omitempty" db:"owner"`
	URL     *string `json:"url,omitempty" db:"url" validate:"omitempty,url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Attribute returns a filterable column value. Unset and empty values report
// false.
func (e Entity) Attribute(field string) (string, bool) {
	var value *string
	switch field {
	case "platform":
		value = e.Platform
	case "odd":
		value = e.ODD
	case "environment":
		value = e.Environment
	case "trailer":
		value = e.Trailer
	case "swimlane":
		value = e.Swimlane
	}
	if value == nil || *value == "" {
		return "", false
	}
	return *value, true
}

func (e Entity) Milestones() trl.Milestones {
	return trl.Milestones{TRL3: e.TRL3Date, TRL6: e.TRL6Date, TRL9: e.TRL9Date}
}

// Required reports whether a when date has been planned.
func (e Entity) Required() bool {
	return e.WhenDate != nil && *e.WhenDate != ""
}

func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
