package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/sapling/internal/repositories/milestone"
	"github.com/Ramsey-B/sapling/pkg/export"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/spf13/cobra"
)

func newMilestoneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage roadmap milestones",
	}
	cmd.AddCommand(newMilestoneAddCommand(), newMilestoneListCommand(), newMilestoneDeleteCommand())
	return cmd
}

func newMilestoneAddCommand() *cobra.Command {
	var (
		m           models.Milestone
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a milestone",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m.Description = models.StringPtr(description)
			if _, err := models.Validate(m); err != nil {
				return err
			}
			ctx, repo, err := resolve[*milestone.Repository](cmd)
			if err != nil {
				return err
			}
			created, err := repo.Create(ctx, &m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added milestone %d %s on %s\n", created.ID, created.Name, created.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&m.Name, "name", "", "milestone name")
	cmd.Flags().StringVar(&m.Date, "date", "", "milestone date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	return cmd
}

func newMilestoneListCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List milestones by date",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			ctx, repo, err := resolve[*milestone.Repository](cmd)
			if err != nil {
				return err
			}
			milestones, err := repo.List(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format == formatJSON {
				return export.WriteJSON(w, milestones)
			}
			rows := make([][]string, len(milestones))
			for i, m := range milestones {
				rows[i] = []string{strconv.FormatInt(m.ID, 10), m.Date, m.Name, models.StringValue(m.Description)}
			}
			renderTable(w, []string{"ID", "Date", "Name", "Description"}, rows, nil)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	return cmd
}

func newMilestoneDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a milestone",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return httperror.NewHTTPErrorf(http.StatusBadRequest, "milestone id must be a number, got %q", args[0])
			}
			ctx, repo, err := resolve[*milestone.Repository](cmd)
			if err != nil {
				return err
			}
			if err := repo.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted milestone %d\n", id)
			return nil
		},
	}
}
