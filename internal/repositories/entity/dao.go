package entity

import (
	"database/sql"
	"fmt"

	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/Ramsey-B/sapling/pkg/models"
)

// table describes where an entity kind lives. tag selects the EntityRow
// fields that are columns of that table.
type table struct {
	name string
	tag  string
}

var tables = map[models.EntityKind]table{
	models.KindProductFeature:    {name: "product_features", tag: "pf"},
	models.KindCapability:        {name: "capabilities", tag: "cap"},
	models.KindTechnicalFunction: {name: "technical_functions", tag: "tf"},
	models.KindProductVariant:    {name: "product_variants", tag: "pv"},
}

func tableFor(kind models.EntityKind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return t, nil
}

// EntityRow is the union of the four entity tables.
type EntityRow struct {
	ID           sql.NullInt64   `db:"id" fieldtag:"id"`
	Label        sql.NullString  `db:"label" fieldtag:"pf,cap,tf,pv"`
	Name         sql.NullString  `db:"name" fieldtag:"pf,cap,tf,pv"`
	Platform     sql.NullString  `db:"platform" fieldtag:"pf,cap,tf,pv"`
	ODD          sql.NullString  `db:"odd" fieldtag:"pf,cap,tf"`
	Environment  sql.NullString  `db:"environment" fieldtag:"pf,cap,tf"`
	Trailer      sql.NullString  `db:"trailer" fieldtag:"pf,cap,tf"`
	Details      sql.NullString  `db:"details" fieldtag:"pf,cap,tf,pv"`
	Comments     sql.NullString  `db:"comments" fieldtag:"pf"`
	WhenDate     sql.NullString  `db:"when_date" fieldtag:"pf,cap"`
	StartDate    sql.NullString  `db:"start_date" fieldtag:"pf,cap"`
	TRL3Date     sql.NullString  `db:"trl3_date" fieldtag:"pf,cap"`
	TRL6Date     sql.NullString  `db:"trl6_date" fieldtag:"pf,cap"`
	TRL9Date     sql.NullString  `db:"trl9_date" fieldtag:"pf,cap"`
	Swimlane     sql.NullString  `db:"swimlane" fieldtag:"cap,tf"`
	SL           sql.NullString  `db:"sl" fieldtag:"cap,tf"`
	Maj          sql.NullFloat64 `db:"maj" fieldtag:"cap,tf"`
	Min          sql.NullFloat64 `db:"min" fieldtag:"cap,tf"`
	Dependencies sql.NullString  `db:"dependencies" fieldtag:"cap"`
	Dependents   sql.NullString  `db:"dependents" fieldtag:"cap"`
	Next         sql.NullString  `db:"next" fieldtag:"tf"`
	TRL          sql.NullString  `db:"trl" fieldtag:"pv"`
	DueDate      sql.NullString  `db:"due_date" fieldtag:"pv"`
	Owner        sql.NullString  `db:"owner" fieldtag:"pv"`
	URL          sql.NullString  `db:"url" fieldtag:"pv"`
	CreatedAt    sql.NullTime    `db:"created_at" fieldtag:"created"`
	UpdatedAt    sql.NullTime    `db:"updated_at" fieldtag:"pf,cap,tf,pv"`
}

var entityStruct = database.NewStruct(new(EntityRow))

// textColumns are the columns Distinct may read.
var textColumns = map[string]bool{
	"platform": true, "odd": true, "environment": true, "trailer": true,
	"swimlane": true, "sl": true, "owner": true, "trl": true,
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// FromEntity converts a domain model to a database row
func FromEntity(e *models.Entity) *EntityRow {
	return &EntityRow{
		ID:           sql.NullInt64{Int64: e.ID, Valid: e.ID != 0},
		Label:        sql.NullString{String: e.Label, Valid: e.Label != ""},
		Name:         sql.NullString{String: e.Name, Valid: e.Name != ""},
		Platform:     nullString(e.Platform),
		ODD:          nullString(e.ODD),
		Environment:  nullString(e.Environment),
		Trailer:      nullString(e.Trailer),
		Details:      nullString(e.Details),
		Comments:     nullString(e.Comments),
		WhenDate:     nullString(e.WhenDate),
		StartDate:    nullString(e.StartDate),
		TRL3Date:     nullString(e.TRL3Date),
		TRL6Date:     nullString(e.TRL6Date),
		TRL9Date:     nullString(e.TRL9Date),
		Swimlane:     nullString(e.Swimlane),
		SL:           nullString(e.SL),
		Maj:          nullFloat(e.Maj),
		Min:          nullFloat(e.Min),
		Dependencies: nullString(e.Dependencies),
		Dependents:   nullString(e.Dependents),
		Next:         nullString(e.Next),
		TRL:          nullString(e.TRL),
		DueDate:      nullString(e.DueDate),
		Owner:        nullString(e.Owner),
		URL:          nullString(e.URL),
		CreatedAt:    sql.NullTime{Time: e.CreatedAt, Valid: !e.CreatedAt.IsZero()},
		UpdatedAt:    sql.NullTime{Time: e.UpdatedAt, Valid: !e.UpdatedAt.IsZero()},
	}
}

// ToEntity converts a database row to a domain model
func ToEntity(kind models.EntityKind, row *EntityRow) models.Entity {
	return models.Entity{
		ID:           row.ID.Int64,
		Kind:         kind,
		Label:        row.Label.String,
		Name:         row.Name.String,
		Platform:     stringPtr(row.Platform),
		ODD:          stringPtr(row.ODD),
		Environment:  stringPtr(row.Environment),
		Trailer:      stringPtr(row.Trailer),
		Details:      stringPtr(row.Details),
		Comments:     stringPtr(row.Comments),
		WhenDate:     stringPtr(row.WhenDate),
		StartDate:    stringPtr(row.StartDate),
		TRL3Date:     stringPtr(row.TRL3Date),
		TRL6Date:     stringPtr(row.TRL6Date),
		TRL9Date:     stringPtr(row.TRL9Date),
		Swimlane:     stringPtr(row.Swimlane),
		SL:           stringPtr(row.SL),
		Maj:          floatPtr(row.Maj),
		Min:          floatPtr(row.Min),
		Dependencies: stringPtr(row.Dependencies),
		Dependents:   stringPtr(row.Dependents),
		Next:         stringPtr(row.Next),
		TRL:          stringPtr(row.TRL),
		DueDate:      stringPtr(row.DueDate),
		Owner:        stringPtr(row.Owner),
		URL:          stringPtr(row.URL),
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

// ToEntities converts a slice of database rows to domain models
func ToEntities(kind models.EntityKind, rows []EntityRow) []models.Entity {
	entities := make([]models.Entity, len(rows))
	for i := range rows {
		entities[i] = ToEntity(kind, &rows[i])
	}
	return entities
}
