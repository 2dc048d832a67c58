package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xoshbin/customfields/pkg/models"
)

var definitionCmd = &cobra.Command{
	Use:     "definition",
	Aliases: []string{"def"},
	Short:   "Manage custom field definitions",
}

func init() {
	definitionCmd.AddCommand(definitionListCmd)
	definitionCmd.AddCommand(definitionGetCmd)
	definitionCmd.AddCommand(definitionApplyCmd)
	definitionCmd.AddCommand(definitionDeleteCmd)
	definitionCmd.AddCommand(definitionValidateCmd)
	definitionCmd.AddCommand(definitionColumnsCmd)
}

var definitionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := app.defSvc.List(cmd.Context())
		if err != nil {
			return err
		}

		locale := app.cfg.CustomFields.DefaultLocale
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL TYPE\tNAME\tACTIVE\tFIELDS")
		for _, def := range defs {
			fmt.Fprintf(w, "%s\t%s\t%t\t%d\n",
				def.ModelType, def.Name.Get(locale), def.IsActive, len(def.Fields))
		}
		return w.Flush()
	},
}

var definitionGetCmd = &cobra.Command{
	Use:   "get <model-type>",
	Short: "Print a definition as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := app.defSvc.FindByModelType(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def == nil {
			return fmt.Errorf("no definition for model type %q", args[0])
		}

		output, err := json.MarshalIndent(def, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal definition: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var definitionApplyCmd = &cobra.Command{
	Use:   "apply <file.json>",
	Short: "Create or update a definition from a JSON file",
	Long: `Apply reads a definition from a JSON file and creates it, or updates
the existing definition with the same model_type. The definition is fully
validated before anything is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := readDefinitionFile(args[0])
		if err != nil {
			return err
		}

		// resolve through the admin lookup so inactive definitions update
		// in place instead of tripping the model_type unique constraint
		existing, err := app.defSvc.FindByModelType(cmd.Context(), def.ModelType)
		if err != nil {
			return err
		}

		if existing == nil {
			if err := app.defSvc.Create(cmd.Context(), def); err != nil {
				return err
			}
			fmt.Printf("Created definition for %s (%d fields)\n", def.ModelType, len(def.Fields))
			return nil
		}

		def.ID = existing.ID
		if err := app.defSvc.Update(cmd.Context(), def); err != nil {
			return err
		}
		fmt.Printf("Updated definition for %s (%d fields)\n", def.ModelType, len(def.Fields))
		return nil
	},
}

var definitionDeleteCmd = &cobra.Command{
	Use:   "delete <model-type>",
	Short: "Delete a definition and all its stored values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := app.defSvc.FindByModelType(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def == nil {
			return fmt.Errorf("no definition for model type %q", args[0])
		}

		if err := app.defSvc.Delete(cmd.Context(), def.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted definition for %s (stored values cascade-deleted)\n", args[0])
		return nil
	},
}

var definitionValidateCmd = &cobra.Command{
	Use:   "validate <file.json>",
	Short: "Validate a definition file without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := readDefinitionFile(args[0])
		if err != nil {
			return err
		}

		errs := app.defSvc.Validate(def)
		if len(errs) == 0 {
			fmt.Println("Definition is valid")
			return nil
		}

		indexes := make([]int, 0, len(errs))
		for i := range errs {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)
		for _, i := range indexes {
			for _, msg := range errs[i] {
				fmt.Printf("field %d (%s): %s\n", i, fieldKeyAt(def, i), msg)
			}
		}
		return fmt.Errorf("definition is invalid")
	},
}

var definitionColumnsCmd = &cobra.Command{
	Use:   "columns <model-type>",
	Short: "Show the table projection of a model type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		columns, err := app.projSvc.TableColumns(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		searchable, err := app.projSvc.SearchablePaths(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		searchableSet := make(map[string]bool, len(searchable))
		for _, path := range searchable {
			searchableSet[path] = true
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tLABEL\tTYPE\tSEARCHABLE")
		for _, col := range columns {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n",
				col.Path(), col.Label, col.Type, searchableSet[col.Path()])
		}
		return w.Flush()
	},
}

func readDefinitionFile(path string) (*models.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var def models.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if def.ModelType == "" {
		return nil, fmt.Errorf("%s: model_type is required", path)
	}

	// Definitions default to active unless the file says otherwise.
	var probe struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.IsActive == nil {
		def.IsActive = true
	}

	return &def, nil
}

func fieldKeyAt(def *models.Definition, i int) string {
	if i < 0 || i >= len(def.Fields) {
		return "?"
	}
	if def.Fields[i].Key == "" {
		return "?"
	}
	return def.Fields[i].Key
}
