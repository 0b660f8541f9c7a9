package models

import "time"

// Configuration types used by the catalog.
const (
	ConfigTypePlatform    = "Platform"
	ConfigTypeODD         = "ODD"
	ConfigTypeEnvironment = "Environment"
	ConfigTypeTrailer     = "Trailer"
	ConfigTypeTRL         = "TRL"
)

var ConfigTypes = []string{ConfigTypePlatform, ConfigTypeODD, ConfigTypeEnvironment, ConfigTypeTrailer, ConfigTypeTRL}

type Configuration struct {
	ID          int64     `json:"id" db:"id"`
	ConfigType  string    `json:"config_type" db:"config_type" yaml:"config_type" validate:"required,oneof=Platform ODD Environment Trailer TRL"`
	Code        string    `json:"code" db:"code" yaml:"code" validate:"required"`
	Description *string   `json:"description" db:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" yaml:"-"`
}

// Milestone annotates the roadmap at a point in time.
type Milestone struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required"`
	Date        string    `json:"date" db:"date" validate:"required,datetime=2006-01-02"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
