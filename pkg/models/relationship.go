package models

import "fmt"

// RelationshipKind names a many-to-many link between two entity tables.
type RelationshipKind string

const (
	RelationshipPVPF  RelationshipKind = "pv-pf"
	RelationshipPFCap RelationshipKind = "pf-cap"
	RelationshipCapTF RelationshipKind = "cap-tf"
)

var RelationshipKinds = []RelationshipKind{RelationshipPVPF, RelationshipPFCap, RelationshipCapTF}

func ParseRelationshipKind(s string) (RelationshipKind, error) {
	for _, kind := range RelationshipKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown relationship %q, expected one of pv-pf, pf-cap, cap-tf", s)
}

// Ends returns the entity kinds on the left and right of the link.
func (k RelationshipKind) Ends() (EntityKind, EntityKind) {
	switch k {
	case RelationshipPVPF:
		return KindProductVariant, KindProductFeature
	case RelationshipPFCap:
		return KindProductFeature, KindCapability
	case RelationshipCapTF:
		return KindCapability, KindTechnicalFunction
	}
	return "", ""
}

// Link is one edge, identified by both ids and labels.
type Link struct {
	Kind       RelationshipKind `json:"kind" db:"-"`
	LeftID     int64            `json:"left_id" db:"left_id"`
	LeftLabel  string           `json:"left_label" db:"left_label"`
	RightID    int64            `json:"right_id" db:"right_id"`
	RightLabel string           `json:"right_label" db:"right_label"`
}

type LinkRequest struct {
	Kind       RelationshipKind `json:"kind" validate:"required,oneof=pv-pf pf-cap cap-tf"`
	LeftLabel  string           `json:"left_label" validate:"required"`
	RightLabel string           `json:"right_label" validate:"required"`
}
