package cli

import (
	"github.com/mcpchecker/envelope/pkg/codec"
	"github.com/mcpchecker/envelope/pkg/normalize"
	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the schema command
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the result envelope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := normalize.Schema()
			if err != nil {
				return err
			}

			return codec.Encode(cmd.OutOrStdout(), schema, codec.FormatJSON)
		},
	}
}
