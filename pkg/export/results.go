// Package export writes query results and whole-store backups to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Ramsey-B/sapling/pkg/readiness"
	"github.com/Ramsey-B/sapling/pkg/trl"
)

// ValueHeader names the computed column of a readiness result.
func ValueHeader(q readiness.Query) string {
	if q.Mode == readiness.ModeByTRL {
		if level, err := trl.ParseLevel(q.Level); err == nil {
			return level.String() + " Date"
		}
		return q.Level + " Date"
	}
	return "TRL at " + q.Date
}

// WriteReadinessCSV writes product features then capabilities, each under a
// title row and separated by a blank row.
func WriteReadinessCSV(w io.Writer, result *readiness.Result) error {
	writer := csv.NewWriter(w)
	header := []string{"Label", "Name", "Description", "Required", ValueHeader(result.Query), "Error"}

	sections := []struct {
		title string
		rows  []readiness.Row
	}{
		{"Product Features", result.ProductFeatures},
		{"Capabilities", result.Capabilities},
	}

	for i, section := range sections {
		if i > 0 {
			if err := writer.Write([]string{}); err != nil {
				return err
			}
		}
		if err := writer.Write([]string{section.title}); err != nil {
			return err
		}
		if err := writer.Write(header); err != nil {
			return err
		}
		for _, row := range section.rows {
			record := []string{row.Label, row.Name, row.Description, strconv.FormatBool(row.Required), row.Value, row.Error}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}
