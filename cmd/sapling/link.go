package main

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/sapling/internal/repositories/relationship"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/spf13/cobra"
)

func parseLinkRequest(args []string) (models.LinkRequest, error) {
	kind, err := models.ParseRelationshipKind(args[0])
	if err != nil {
		return models.LinkRequest{}, httperror.WrapError(http.StatusBadRequest, err)
	}
	return models.Validate(models.LinkRequest{Kind: kind, LeftLabel: args[1], RightLabel: args[2]})
}

func newLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "link <pv-pf|pf-cap|cap-tf> <left-label> <right-label>",
		Short:   "Link two entities",
		Example: "  sapling link pf-cap PF-1 CAP-7",
		Args:    exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseLinkRequest(args)
			if err != nil {
				return err
			}
			ctx, repo, err := resolve[*relationship.Repository](cmd)
			if err != nil {
				return err
			}
			if _, err := repo.Link(ctx, req.Kind, req.LeftLabel, req.RightLabel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s %s -> %s\n", req.Kind, req.LeftLabel, req.RightLabel)
			return nil
		},
	}
}

func newUnlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <pv-pf|pf-cap|cap-tf> <left-label> <right-label>",
		Short: "Remove the link between two entities",
		Args:  exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseLinkRequest(args)
			if err != nil {
				return err
			}
			ctx, repo, err := resolve[*relationship.Repository](cmd)
			if err != nil {
				return err
			}
			if err := repo.Unlink(ctx, req.Kind, req.LeftLabel, req.RightLabel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s %s -> %s\n", req.Kind, req.LeftLabel, req.RightLabel)
			return nil
		},
	}
}
