package database

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// IsUniqueViolation reports a UNIQUE or PRIMARY KEY constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
