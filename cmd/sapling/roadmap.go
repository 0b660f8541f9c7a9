package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/internal/repositories/entity"
	"github.com/Ramsey-B/sapling/internal/repositories/milestone"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/roadmap"
	"github.com/spf13/cobra"
)

func newRoadmapCommand() *cobra.Command {
	var (
		filters  criteria.Filters
		view     string
		maxItems int
		format   string
		selectBy string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Lay out TRL milestones on a timeline",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			sel, err := selector(format, selectBy)
			if err != nil {
				return err
			}
			v, err := roadmap.ParseView(view)
			if err != nil {
				return httperror.WrapError(http.StatusBadRequest, err)
			}

			ctx, svc, err := resolve[*roadmap.Service](cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max") {
				if svc, err = roadmapServiceWithMax(cmd, maxItems); err != nil {
					return err
				}
			}

			timeline, err := svc.BuildRoadmap(ctx, v, filters)
			if err != nil {
				return err
			}

			w, closeOutput, err := output(cmd, out)
			if err != nil {
				return err
			}
			if format == formatJSON {
				err = sel.WriteJSON(w, timeline)
			} else {
				renderTimeline(w, timeline)
			}
			if closeErr := closeOutput(); err == nil {
				err = closeErr
			}
			return err
		},
	}

	cmd.Flags().StringVar(&view, "view", string(roadmap.ViewProductFeatures), "entities to show: pf, cap or both")
	cmd.Flags().IntVar(&maxItems, "max", roadmap.DefaultMaxItems, "maximum number of timeline items (overrides ROADMAP_MAX_ITEMS)")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	cmd.Flags().StringVar(&selectBy, "select", "", selectUsage)
	cmd.Flags().StringVar(&out, "out", "", "write to this file instead of stdout")
	addFilterFlags(cmd, &filters, true)
	return cmd
}

func roadmapServiceWithMax(cmd *cobra.Command, maxItems int) (*roadmap.Service, error) {
	if maxItems <= 0 {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "--max must be positive, got %d", maxItems)
	}
	_, entities, err := resolve[*entity.Repository](cmd)
	if err != nil {
		return nil, err
	}
	_, milestones, err := resolve[*milestone.Repository](cmd)
	if err != nil {
		return nil, err
	}
	_, builder, err := resolve[*criteria.Builder](cmd)
	if err != nil {
		return nil, err
	}
	_, logger, err := resolve[ectologger.Logger](cmd)
	if err != nil {
		return nil, err
	}
	return roadmap.NewService(entities, milestones, builder, roadmap.NewBuilder(maxItems), logger), nil
}

func renderTimeline(w io.Writer, timeline *roadmap.Timeline) {
	heading(w, fmt.Sprintf("Roadmap (%d items)", len(timeline.Items)))

	rows := make([][]string, len(timeline.Items))
	for i, item := range timeline.Items {
		points := make([]string, len(item.Points))
		for j, p := range item.Points {
			points[j] = fmt.Sprintf("%s %s", p.Level, p.Date)
		}
		rows[i] = []string{item.Label, item.Name, kindAlias(item.Kind), item.Start, item.End, strings.Join(points, " > ")}
	}
	renderTable(w, []string{"Label", "Name", "Kind", "Start", "End", "Milestones"}, rows, nil)

	if timeline.Truncated {
		fmt.Fprintf(w, "Showing %d of %d items, %d omitted\n", len(timeline.Items), timeline.Total, timeline.Omitted)
	}

	if len(timeline.Milestones) > 0 {
		fmt.Fprintln(w)
		heading(w, "Milestones")
		rows := make([][]string, len(timeline.Milestones))
		for i, m := range timeline.Milestones {
			rows[i] = []string{m.Date, m.Name, models.StringValue(m.Description)}
		}
		renderTable(w, []string{"Date", "Name", "Description"}, rows, nil)
	}
}
