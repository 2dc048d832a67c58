package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xoshbin/customfields/pkg/models"
)

var valuesCmd = &cobra.Command{
	Use:   "values",
	Short: "Inspect and manage stored field values of an entity",
}

func init() {
	valuesCmd.AddCommand(valuesShowCmd)
	valuesCmd.AddCommand(valuesSetCmd)
	valuesCmd.AddCommand(valuesPurgeCmd)

	rootCmd.AddCommand(valuesCmd)
}

func parseEntityArgs(args []string) (models.EntityRef, error) {
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return models.EntityRef{}, fmt.Errorf("invalid entity id %q: %w", args[1], err)
	}
	return models.EntityRef{Type: args[0], ID: id}, nil
}

var valuesShowCmd = &cobra.Command{
	Use:   "show <model-type> <entity-id>",
	Short: "Show every declared field and its stored value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := parseEntityArgs(args)
		if err != nil {
			return err
		}

		attachment, err := app.cfSvc.Attach(cmd.Context(), entity)
		if err != nil {
			return err
		}
		if attachment.Definition() == nil {
			return fmt.Errorf("no active definition for model type %q", entity.Type)
		}

		states, err := attachment.FieldsWithValues()
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(states))
		for key := range states {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			return states[keys[i]].Spec.Order < states[keys[j]].Spec.Order
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tTYPE\tVALUE")
		for _, key := range keys {
			display := "-"
			if states[key].HasValue {
				display = attachment.DisplayValue(key)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", key, states[key].Spec.Type, display)
		}
		return w.Flush()
	},
}

var valuesSetCmd = &cobra.Command{
	Use:   "set <model-type> <entity-id> <field-key> <value>",
	Short: "Set one field value",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := parseEntityArgs(args)
		if err != nil {
			return err
		}

		attachment, err := app.cfSvc.Attach(cmd.Context(), entity)
		if err != nil {
			return err
		}

		if err := attachment.SetValue(cmd.Context(), args[2], args[3]); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", args[2], attachment.DisplayValue(args[2]))
		return nil
	},
}

var valuesPurgeCmd = &cobra.Command{
	Use:   "purge <model-type> <entity-id>",
	Short: "Delete every stored value of an entity instance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := parseEntityArgs(args)
		if err != nil {
			return err
		}

		deleted, err := app.cfSvc.PurgeEntity(cmd.Context(), entity)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d value(s)\n", deleted)
		return nil
	},
}
