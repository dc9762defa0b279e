package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api"
	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
)

var fieldTypes = []string{"text", "number", "datetime", "state", "district", "ward"}

func newFieldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		Aliases: []string{"field"},
		Short:   "Manage contact fields",
	}
	cmd.AddCommand(newFieldsListCmd())
	cmd.AddCommand(newFieldsCreateCmd())
	return cmd
}

func fieldRow(f *v2.Field) []string {
	return []string{f.Key, f.Name, f.Type}
}

func newFieldsListCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contact fields",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			fields, err := client.Fields(key).All(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.FieldSchema, fields, []string{"Key", "Name", "Type"}, fieldRow)
		}),
	}
	cmd.Flags().StringVar(&key, "key", "", "Only the field with this key")
	return cmd
}

func newFieldsCreateCmd() *cobra.Command {
	var valueType string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a contact field",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(fieldTypes, valueType) {
				return api.NewValidationError("type", valueType, fieldTypes)
			}
			payload := map[string]any{"name": args[0], "type": valueType}
			if previewWrite(cmd, "POST", "fields", payload) {
				return nil
			}
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			field, err := client.CreateField(cmd.Context(), args[0], valueType)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return writeObject(cmd, v2.FieldSchema, field, nil)
			}
			printf(cmd, "Created field %s (%s)\n", field.Key, field.Type)
			return nil
		}),
	}
	cmd.Flags().StringVar(&valueType, "type", "text", fmt.Sprintf("Value type: %v", fieldTypes))
	return cmd
}
