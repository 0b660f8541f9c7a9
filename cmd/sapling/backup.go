package main

import (
	"fmt"
	"os"

	"github.com/Ramsey-B/sapling/pkg/export"
	"github.com/spf13/cobra"
)

func newBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import a full JSON backup",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "export <file>",
			Short: "Write every table and link to a JSON file",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, svc, err := resolve[*export.BackupService](cmd)
				if err != nil {
					return err
				}
				b, err := svc.Export(ctx)
				if err != nil {
					return err
				}

				w, closeOutput, err := output(cmd, args[0])
				if err != nil {
					return err
				}
				err = export.WriteJSON(w, b)
				if closeErr := closeOutput(); err == nil {
					err = closeErr
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported backup to %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Merge a JSON backup into the database",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()

				b, err := export.ReadBackup(f)
				if err != nil {
					return err
				}
				ctx, svc, err := resolve[*export.BackupService](cmd)
				if err != nil {
					return err
				}
				stats, err := svc.Restore(ctx, b)
				if err != nil {
					return err
				}
				return export.WriteJSON(cmd.OutOrStdout(), stats)
			},
		},
	)
	return cmd
}
