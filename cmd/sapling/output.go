package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/sapling/pkg/export"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"

	selectUsage = "JMESPath expression applied to json output, e.g. 'product_features[?required].label'"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Padding(0, 1)
)

// resolve fetches a dependency registered at startup.
func resolve[T any](cmd *cobra.Command) (context.Context, T, error) {
	return ectoinject.GetContext[T](cmd.Context())
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if f == format {
			return nil
		}
	}
	return httperror.NewHTTPErrorf(http.StatusBadRequest, "unsupported format %q", format)
}

// selector compiles --select, which only applies to json output.
func selector(format, expression string) (*export.Selector, error) {
	if expression != "" && format != formatJSON {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "--select requires --format json")
	}
	return export.NewSelector(expression)
}

// output returns the command's stdout, or path when one is given.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, headingStyle.Render(title))
}

// renderTable writes rows under headers. Rows listed in failed are highlighted.
func renderTable(w io.Writer, headers []string, rows [][]string, failed map[int]bool) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case failed[row]:
				return errorStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return ""
}
