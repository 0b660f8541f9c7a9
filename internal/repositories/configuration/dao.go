package configuration

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/Ramsey-B/sapling/pkg/models"
)

const configurationsTable = "configurations"

// ConfigurationRow represents the database row for a catalog code
type ConfigurationRow struct {
	ID          int64          `db:"id" fieldtag:"read"`
	ConfigType  string         `db:"config_type" fieldtag:"read,write"`
	Code        string         `db:"code" fieldtag:"read,write"`
	Description sql.NullString `db:"description" fieldtag:"read,write"`
	CreatedAt   time.Time      `db:"created_at" fieldtag:"read,write"`
}

var configurationStruct = database.NewStruct(new(ConfigurationRow))

// FromConfiguration converts a domain model to a database row
func FromConfiguration(c *models.Configuration) *ConfigurationRow {
	row := &ConfigurationRow{
		ID:         c.ID,
		ConfigType: c.ConfigType,
		Code:       c.Code,
		CreatedAt:  c.CreatedAt,
	}
	if c.Description != nil {
		row.Description = sql.NullString{String: *c.Description, Valid: true}
	}
	return row
}

// ToConfiguration converts a database row to a domain model
func ToConfiguration(row *ConfigurationRow) models.Configuration {
	c := models.Configuration{
		ID:         row.ID,
		ConfigType: row.ConfigType,
		Code:       row.Code,
		CreatedAt:  row.CreatedAt,
	}
	if row.Description.Valid {
		c.Description = &row.Description.String
	}
	return c
}

func ToConfigurations(rows []ConfigurationRow) []models.Configuration {
	configurations := make([]models.Configuration, len(rows))
	for i := range rows {
		configurations[i] = ToConfiguration(&rows[i])
	}
	return configurations
}
