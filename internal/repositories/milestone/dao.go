package milestone

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/Ramsey-B/sapling/pkg/models"
)

const milestonesTable = "milestones"

// MilestoneRow represents the database row for a roadmap milestone
type MilestoneRow struct {
	ID          int64          `db:"id" fieldtag:"read"`
	Name        string         `db:"name" fieldtag:"read,write"`
	Date        string         `db:"date" fieldtag:"read,write"`
	Description sql.NullString `db:"description" fieldtag:"read,write"`
	CreatedAt   time.Time      `db:"created_at" fieldtag:"read,write"`
}

var milestoneStruct = database.NewStruct(new(MilestoneRow))

// FromMilestone converts a domain model to a database row
func FromMilestone(m *models.Milestone) *MilestoneRow {
	row := &MilestoneRow{
		ID:        m.ID,
		Name:      m.Name,
		Date:      m.Date,
		CreatedAt: m.CreatedAt,
	}
	if m.Description != nil {
		row.Description = sql.NullString{String: *m.Description, Valid: true}
	}
	return row
}

// ToMilestone converts a database row to a domain model
func ToMilestone(row *MilestoneRow) models.Milestone {
	m := models.Milestone{
		ID:        row.ID,
		Name:      row.Name,
		Date:      row.Date,
		CreatedAt: row.CreatedAt,
	}
	if row.Description.Valid {
		m.Description = &row.Description.String
	}
	return m
}

func ToMilestones(rows []MilestoneRow) []models.Milestone {
	milestones := make([]models.Milestone, len(rows))
	for i := range rows {
		milestones[i] = ToMilestone(&rows[i])
	}
	return milestones
}
