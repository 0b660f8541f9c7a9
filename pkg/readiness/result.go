package readiness

import (
	"encoding/json"

	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/trl"
)

// ErrorValue replaces the computed value of a row whose record could not be
// resolved.
const ErrorValue = "ERROR"

type Row struct {
	Label       string   `json:"label"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Value       string   `json:"value"`
	Error       string   `json:"error,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

func (r Row) Failed() bool {
	return r.Error != ""
}

// Distribution counts rows per state. It always holds all four states.
type Distribution map[trl.Level]int

func NewDistribution() Distribution {
	d := Distribution{}
	for _, level := range trl.Levels {
		d[level] = 0
	}
	return d
}

func (d Distribution) Total() int {
	total := 0
	for _, count := range d {
		total += count
	}
	return total
}

// LevelCount is one state of a distribution.
type LevelCount struct {
	Level trl.Level `json:"level"`
	Count int       `json:"count"`
}

// NonZero lists states with at least one row, in progression order.
func (d Distribution) NonZero() []LevelCount {
	var out []LevelCount
	for _, level := range trl.Levels {
		if d[level] > 0 {
			out = append(out, LevelCount{Level: level, Count: d[level]})
		}
	}
	return out
}

func (d Distribution) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(trl.Levels))
	for _, level := range trl.Levels {
		out[level.String()] = d[level]
	}
	return json.Marshal(out)
}

type Result struct {
	Query           Query         `json:"query"`
	ProductFeatures []Row         `json:"product_features"`
	Capabilities    []Row         `json:"capabilities"`
	PFDistribution  *Distribution `json:"pf_distribution"`
	CapDistribution *Distribution `json:"cap_distribution"`
}

// Snapshot is the entity state a query runs against.
type Snapshot struct {
	ProductFeatures []models.Entity
	Capabilities    []models.Entity
}

func (r *Result) ErrorCount() int {
	count := 0
	for _, rows := range [][]Row{r.ProductFeatures, r.Capabilities} {
		for _, row := range rows {
			if row.Failed() {
				count++
			}
		}
	}
	return count
}
