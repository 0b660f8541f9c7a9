package main

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/sapling/internal/repositories/configuration"
	"github.com/Ramsey-B/sapling/pkg/catalog"
	"github.com/Ramsey-B/sapling/pkg/export"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration code catalog",
	}
	cmd.AddCommand(
		newConfigListCommand(),
		newConfigAddCommand(),
		newConfigDeleteCommand(),
		newConfigSeedCommand(),
	)
	return cmd
}

func newConfigListCommand() *cobra.Command {
	var configType, format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog codes",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			if configType != "" {
				if err := models.ValidateValue(configType, "oneof="+strings.Join(models.ConfigTypes, " ")); err != nil {
					return err
				}
			}
			ctx, repo, err := resolve[*configuration.Repository](cmd)
			if err != nil {
				return err
			}
			configurations, err := repo.List(ctx, configType)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format == formatJSON {
				return export.WriteJSON(w, configurations)
			}
			rows := make([][]string, len(configurations))
			for i, c := range configurations {
				rows[i] = []string{c.ConfigType, c.Code, models.StringValue(c.Description)}
			}
			renderTable(w, []string{"Type", "Code", "Description"}, rows, nil)
			return nil
		},
	}
	cmd.Flags().StringVar(&configType, "type", "", "only list this type (Platform, ODD, Environment, Trailer, TRL)")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	return cmd
}

func newConfigAddCommand() *cobra.Command {
	var (
		c           models.Configuration
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog code",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.Description = models.StringPtr(description)
			if _, err := models.Validate(c); err != nil {
				return err
			}
			ctx, repo, err := resolve[*configuration.Repository](cmd)
			if err != nil {
				return err
			}
			if _, err := repo.Create(ctx, &c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", c.ConfigType, c.Code)
			return nil
		},
	}
	cmd.Flags().StringVar(&c.ConfigType, "type", "", "code type (Platform, ODD, Environment, Trailer, TRL)")
	cmd.Flags().StringVar(&c.Code, "code", "", "code")
	cmd.Flags().StringVar(&description, "description", "", "description")
	return cmd
}

func newConfigDeleteCommand() *cobra.Command {
	var configType, code string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a catalog code",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, repo, err := resolve[*configuration.Repository](cmd)
			if err != nil {
				return err
			}
			if err := repo.Delete(ctx, configType, code); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", configType, code)
			return nil
		},
	}
	cmd.Flags().StringVar(&configType, "type", "", "code type")
	cmd.Flags().StringVar(&code, "code", "", "code")
	return cmd
}

func newConfigSeedCommand() *cobra.Command {
	var (
		file  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default catalog, or a YAML catalog file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := catalog.Load(file)
			if err != nil {
				return err
			}
			ctx, seeder, err := resolve[*catalog.Seeder](cmd)
			if err != nil {
				return err
			}
			added, err := seeder.Seed(ctx, c, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d configuration code(s)\n", added)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML catalog to load instead of the built-in one")
	cmd.Flags().BoolVar(&force, "force", false, "add missing codes even when the catalog is not empty")
	return cmd
}
