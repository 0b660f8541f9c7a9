package relationship

import (
	"fmt"

	"github.com/Ramsey-B/sapling/pkg/models"
)

// junction describes the link table backing a relationship kind.
type junction struct {
	name       string
	leftTable  string
	leftCol    string
	rightTable string
	rightCol   string
}

var junctions = map[models.RelationshipKind]junction{
	models.RelationshipPVPF: {
		name:       "pv_product_features",
		leftTable:  "product_variants",
		leftCol:    "product_variant_id",
		rightTable: "product_features",
		rightCol:   "product_feature_id",
	},
	models.RelationshipPFCap: {
		name:       "pf_capabilities",
		leftTable:  "product_features",
		leftCol:    "product_feature_id",
		rightTable: "capabilities",
		rightCol:   "capability_id",
	},
	models.RelationshipCapTF: {
		name:       "cap_technical_functions",
		leftTable:  "capabilities",
		leftCol:    "capability_id",
		rightTable: "technical_functions",
		rightCol:   "technical_function_id",
	},
}

func junctionFor(kind models.RelationshipKind) (junction, error) {
	j, ok := junctions[kind]
	if !ok {
		return junction{}, fmt.Errorf("unknown relationship %q", kind)
	}
	return j, nil
}

// LinkRow is a junction row joined to the labels on both ends.
type LinkRow struct {
	LeftID     int64  `db:"left_id"`
	LeftLabel  string `db:"left_label"`
	RightID    int64  `db:"right_id"`
	RightLabel string `db:"right_label"`
}

func ToLinks(kind models.RelationshipKind, rows []LinkRow) []models.Link {
	links := make([]models.Link, len(rows))
	for i, row := range rows {
		links[i] = models.Link{
			Kind:       kind,
			LeftID:     row.LeftID,
			LeftLabel:  row.LeftLabel,
			RightID:    row.RightID,
			RightLabel: row.RightLabel,
		}
	}
	return links
}
