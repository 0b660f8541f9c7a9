package main

import (
	"fmt"

	"github.com/Ramsey-B/sapling/internal/repositories/entity"
	"github.com/spf13/cobra"
)

func newValuesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "values <table> <column>",
		Short:   "List the distinct values stored in a column",
		Example: "  sapling values pf platform\n  sapling values capabilities swimlane",
		Args:    exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := lookupKind(args[0])
			if err != nil {
				return err
			}
			ctx, repo, err := resolve[*entity.Repository](cmd)
			if err != nil {
				return err
			}
			values, err := repo.Distinct(ctx, k.kind, args[1])
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}
