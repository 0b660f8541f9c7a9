package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/sapling/internal/repositories/entity"
	"github.com/Ramsey-B/sapling/internal/repositories/relationship"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/export"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/spf13/cobra"
)

type entityKind struct {
	alias string
	kind  models.EntityKind
	title string
	table string
}

var (
	kindProductFeature    = entityKind{"pf", models.KindProductFeature, "product feature", "product_features"}
	kindCapability        = entityKind{"cap", models.KindCapability, "capability", "capabilities"}
	kindTechnicalFunction = entityKind{"tf", models.KindTechnicalFunction, "technical function", "technical_functions"}
	kindProductVariant    = entityKind{"pv", models.KindProductVariant, "product variant", "product_variants"}

	entityKinds = []entityKind{kindProductFeature, kindCapability, kindTechnicalFunction, kindProductVariant}
)

func kindAlias(kind models.EntityKind) string {
	for _, k := range entityKinds {
		if k.kind == kind {
			return k.alias
		}
	}
	return string(kind)
}

// lookupKind accepts an alias (pf) or a table name (product_features).
func lookupKind(name string) (entityKind, error) {
	for _, k := range entityKinds {
		if name == k.alias || name == k.table || name == string(k.kind) {
			return k, nil
		}
	}
	return entityKind{}, httperror.NewHTTPErrorf(http.StatusBadRequest, "unknown table %q, expected pf, cap, tf or pv", name)
}

// entityField is an optional column settable from a flag.
type entityField struct {
	flag  string
	usage string
	kinds []models.EntityKind
	get   func(e *models.Entity) string
	set   func(e *models.Entity, value string) error
}

func textField(flag, usage string, ptr func(e *models.Entity) **string, kinds ...models.EntityKind) entityField {
	return entityField{
		flag:  flag,
		usage: usage,
		kinds: kinds,
		get:   func(e *models.Entity) string { return models.StringValue(*ptr(e)) },
		set: func(e *models.Entity, value string) error {
			*ptr(e) = models.StringPtr(value)
			return nil
		},
	}
}

func numberField(flag, usage string, ptr func(e *models.Entity) **float64, kinds ...models.EntityKind) entityField {
	return entityField{
		flag:  flag,
		usage: usage,
		kinds: kinds,
		get: func(e *models.Entity) string {
			if v := *ptr(e); v != nil {
				return strconv.FormatFloat(*v, 'f', -1, 64)
			}
			return ""
		},
		set: func(e *models.Entity, value string) error {
			if value == "" {
				*ptr(e) = nil
				return nil
			}
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return httperror.NewHTTPErrorf(http.StatusBadRequest, "--%s must be a number, got %q", flag, value)
			}
			*ptr(e) = &f
			return nil
		},
	}
}

const (
	onPF  = models.KindProductFeature
	onCap = models.KindCapability
	onTF  = models.KindTechnicalFunction
	onPV  = models.KindProductVariant
)

var entityFields = []entityField{
	textField("swimlane", "swimlane", func(e *models.Entity) **string { return &e.Swimlane }, onCap, onTF),
	textField("sl", "SL", func(e *models.Entity) **string { return &e.SL }, onCap, onTF),
	numberField("maj", "major version", func(e *models.Entity) **float64 { return &e.Maj }, onCap, onTF),
	numberField("min", "minor version", func(e *models.Entity) **float64 { return &e.Min }, onCap, onTF),
	textField("platform", "platform code", func(e *models.Entity) **string { return &e.Platform }, onPF, onCap, onTF, onPV),
	textField("odd", "ODD code", func(e *models.Entity) **string { return &e.ODD }, onPF, onCap, onTF),
	textField("environment", "environment code", func(e *models.Entity) **string { return &e.Environment }, onPF, onCap, onTF),
	textField("trailer", "trailer code", func(e *models.Entity) **string { return &e.Trailer }, onPF, onCap, onTF),
	textField("details", "free-text details", func(e *models.Entity) **string { return &e.Details }, onPF, onCap, onTF, onPV),
	textField("comments", "comments", func(e *models.Entity) **string { return &e.Comments }, onPF),
	textField("when", "when the item is required", func(e *models.Entity) **string { return &e.WhenDate }, onPF, onCap),
	textField("dependencies", "dependencies", func(e *models.Entity) **string { return &e.Dependencies }, onCap),
	textField("dependents", "dependents", func(e *models.Entity) **string { return &e.Dependents }, onCap),
	textField("next", "next step", func(e *models.Entity) **string { return &e.Next }, onTF),
	textField("start-date", "start date (YYYY-MM-DD)", func(e *models.Entity) **string { return &e.StartDate }, onPF, onCap),
	textField("trl3-date", "TRL 3 date (YYYY-MM-DD)", func(e *models.Entity) **string { return &e.TRL3Date }, onPF, onCap),
	textField("trl6-date", "TRL 6 date (YYYY-MM-DD)", func(e *models.Entity) **string { return &e.TRL6Date }, onPF, onCap),
	textField("trl9-date", "TRL 9 date (YYYY-MM-DD)", func(e *models.Entity) **string { return &e.TRL9Date }, onPF, onCap),
	textField("trl", "current TRL", func(e *models.Entity) **string { return &e.TRL }, onPV),
	textField("due-date", "due date (YYYY-MM-DD)", func(e *models.Entity) **string { return &e.DueDate }, onPV),
	textField("owner", "owner", func(e *models.Entity) **string { return &e.Owner }, onPV),
	textField("url", "link to more information", func(e *models.Entity) **string { return &e.URL }, onPV),
}

func fieldsFor(kind models.EntityKind) []entityField {
	var fields []entityField
	for _, f := range entityFields {
		for _, k := range f.kinds {
			if k == kind {
				fields = append(fields, f)
				break
			}
		}
	}
	return fields
}

func newEntityCommand(k entityKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   k.alias,
		Short: fmt.Sprintf("Manage %ss", k.title),
	}
	cmd.AddCommand(
		newEntityAddCommand(k),
		newEntityListCommand(k),
		newEntityShowCommand(k),
		newEntityDeleteCommand(k),
	)
	return cmd
}

func newEntityAddCommand(k entityKind) *cobra.Command {
	var e models.Entity
	values := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s", k.title),
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e.Kind = k.kind
			for _, f := range fieldsFor(k.kind) {
				if err := f.set(&e, *values[f.flag]); err != nil {
					return err
				}
			}
			if _, err := models.Validate(e); err != nil {
				return err
			}

			ctx, repo, err := resolve[*entity.Repository](cmd)
			if err != nil {
				return err
			}
			created, err := repo.Create(ctx, &e)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", k.title, created.Label)
			return nil
		},
	}

	cmd.Flags().StringVar(&e.Label, "label", "", "unique label (required)")
	cmd.Flags().StringVar(&e.Name, "name", "", "name (required)")
	for _, f := range fieldsFor(k.kind) {
		values[f.flag] = cmd.Flags().String(f.flag, "", f.usage)
	}
	return cmd
}

func newEntityListCommand(k entityKind) *cobra.Command {
	var (
		filters criteria.Filters
		format  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss, optionally filtered", k.title),
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			ctx, repo, err := resolve[*entity.Repository](cmd)
			if err != nil {
				return err
			}
			_, builder, err := resolve[*criteria.Builder](cmd)
			if err != nil {
				return err
			}

			entities, err := repo.List(ctx, k.kind, builder.Conditions(filters)...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format == formatJSON {
				return export.WriteJSON(w, entities)
			}
			renderEntities(w, k, entities)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	if k.kind != models.KindProductVariant {
		addFilterFlags(cmd, &filters, k.kind == models.KindCapability)
	} else {
		cmd.Flags().StringVar(&filters.Platform, "platform", "", "platform code")
	}
	return cmd
}

func renderEntities(w io.Writer, k entityKind, entities []models.Entity) {
	fields := fieldsFor(k.kind)
	headers := []string{"Label", "Name"}
	for _, f := range fields {
		headers = append(headers, f.flag)
	}

	rows := make([][]string, len(entities))
	for i := range entities {
		row := []string{entities[i].Label, entities[i].Name}
		for _, f := range fields {
			row = append(row, f.get(&entities[i]))
		}
		rows[i] = row
	}

	heading(w, fmt.Sprintf("%d %s(s)", len(entities), k.title))
	renderTable(w, headers, rows, nil)
}

func newEntityShowCommand(k entityKind) *cobra.Command {
	return &cobra.Command{
		Use:   "show <label>",
		Short: fmt.Sprintf("Show a %s and its links", k.title),
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, repo, err := resolve[*entity.Repository](cmd)
			if err != nil {
				return err
			}
			_, links, err := resolve[*relationship.Repository](cmd)
			if err != nil {
				return err
			}

			e, err := repo.GetByLabel(ctx, k.kind, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			heading(w, fmt.Sprintf("%s %s", e.Label, e.Name))
			rows := [][]string{}
			for _, f := range fieldsFor(k.kind) {
				if v := f.get(e); v != "" {
					rows = append(rows, []string{f.flag, v})
				}
			}
			renderTable(w, []string{"Field", "Value"}, rows, nil)

			for _, rel := range models.RelationshipKinds {
				left, right := rel.Ends()
				if left != k.kind && right != k.kind {
					continue
				}
				linked, err := links.ListFor(ctx, rel, k.kind, e.Label)
				if err != nil {
					return err
				}
				other := left
				if left == k.kind {
					other = right
				}
				for _, l := range linked {
					label := l.LeftLabel
					if left == k.kind {
						label = l.RightLabel
					}
					fmt.Fprintf(w, "linked %s: %s\n", kindAlias(other), label)
				}
			}
			return nil
		},
	}
}

func newEntityDeleteCommand(k entityKind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <label>",
		Short: fmt.Sprintf("Delete a %s and its links", k.title),
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, repo, err := resolve[*entity.Repository](cmd)
			if err != nil {
				return err
			}
			if err := repo.Delete(ctx, k.kind, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", k.title, args[0])
			return nil
		},
	}
}
