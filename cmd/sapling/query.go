package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/export"
	"github.com/Ramsey-B/sapling/pkg/readiness"
	"github.com/spf13/cobra"
)

func addFilterFlags(cmd *cobra.Command, f *criteria.Filters, swimlane bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.Platform, "platform", "", "platform code, e.g. Terberg-1")
	flags.StringVar(&f.ODD, "odd", "", "operational design domain code, e.g. CFG-ODD-2")
	flags.StringVar(&f.Environment, "environment", "", "environment code, e.g. CFG-ENV-2.1")
	flags.StringVar(&f.Trailer, "trailer", "", "trailer code")
	if swimlane {
		flags.StringVar(&f.Swimlane, "swimlane", "", "capability swimlane")
	}
}

func newQueryCommand() *cobra.Command {
	var (
		q        readiness.Query
		mode     string
		format   string
		selectBy string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Show the readiness of product features and capabilities",
		Example: `  sapling query --mode date --date 2024-06-01 --platform Terberg-1
  sapling query --mode trl --trl "TRL 6" --format csv --out readiness.csv`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
				return err
			}
			sel, err := selector(format, selectBy)
			if err != nil {
				return err
			}
			q.Mode = readiness.Mode(mode)

			ctx, svc, err := resolve[*readiness.Service](cmd)
			if err != nil {
				return err
			}
			result, err := svc.ApplyReadinessQuery(ctx, q)
			if err != nil {
				return err
			}

			w, closeOutput, err := output(cmd, out)
			if err != nil {
				return err
			}
			switch format {
			case formatJSON:
				err = sel.WriteJSON(w, result)
			case formatCSV:
				err = export.WriteReadinessCSV(w, result)
			default:
				renderReadiness(w, result)
			}
			if closeErr := closeOutput(); err == nil {
				err = closeErr
			}
			return err
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(readiness.ModeByDate), "query mode: date or trl")
	cmd.Flags().StringVar(&q.Date, "date", "", "query date (YYYY-MM-DD) for --mode date")
	cmd.Flags().StringVar(&q.Level, "trl", "", "level (TRL 3, TRL 6 or TRL 9) for --mode trl")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or csv")
	cmd.Flags().StringVar(&selectBy, "select", "", selectUsage)
	cmd.Flags().StringVar(&out, "out", "", "write to this file instead of stdout")
	addFilterFlags(cmd, &q.Filters, true)
	return cmd
}

func renderReadiness(w io.Writer, result *readiness.Result) {
	valueHeader := export.ValueHeader(result.Query)
	sections := []struct {
		title        string
		rows         []readiness.Row
		distribution *readiness.Distribution
	}{
		{"Product Features", result.ProductFeatures, result.PFDistribution},
		{"Capabilities", result.Capabilities, result.CapDistribution},
	}

	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		heading(w, fmt.Sprintf("%s (%d)", section.title, len(section.rows)))

		rows := make([][]string, len(section.rows))
		failed := map[int]bool{}
		for j, row := range section.rows {
			notes := row.Warnings
			if row.Failed() {
				failed[j] = true
				notes = append([]string{row.Error}, notes...)
			}
			rows[j] = []string{row.Label, row.Name, row.Description, yesNo(row.Required), row.Value, strings.Join(notes, "; ")}
		}
		renderTable(w, []string{"Label", "Name", "Description", "Required", valueHeader, "Notes"}, rows, failed)

		if section.distribution != nil {
			var parts []string
			for _, lc := range section.distribution.NonZero() {
				parts = append(parts, fmt.Sprintf("%s: %d", lc.Level, lc.Count))
			}
			if len(parts) == 0 {
				parts = []string{"none"}
			}
			fmt.Fprintf(w, "Distribution: %s\n", strings.Join(parts, ", "))
		}
	}
}
