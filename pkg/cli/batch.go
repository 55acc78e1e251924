package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mcpchecker/envelope/pkg/batch"
	"github.com/mcpchecker/envelope/pkg/codec"
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command
func NewBatchCmd(global *globalOptions) *cobra.Command {
	var (
		inputFormat  string
		outputFormat string
		concurrency  int
	)

	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Normalize many documents concurrently",
		Long: `Normalize every file given and print one item per file, in argument order.
Files that fail to decode are reported inline and make the command fail
once all items have been printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}

			in, err := flagFormat(cmd, "input", inputFormat, cfg.Input)
			if err != nil {
				return err
			}
			out, err := flagFormat(cmd, "output", outputFormat, cfg.Output)
			if err != nil {
				return err
			}

			limit := cfg.Concurrency
			if cmd.Flags().Changed("concurrency") {
				if concurrency < 1 {
					return fmt.Errorf("invalid --concurrency: must be at least 1, got %d", concurrency)
				}
				limit = concurrency
			}

			docs, err := batch.ReadFiles(args)
			if err != nil {
				return err
			}

			items, err := batch.Run(cmd.Context(), docs, batch.Options{
				Format:      in,
				Concurrency: limit,
			})
			if err != nil {
				return fmt.Errorf("batch failed: %w", err)
			}

			if err := codec.Encode(cmd.OutOrStdout(), items, out); err != nil {
				return err
			}

			if failed := batch.Failed(items); failed > 0 {
				color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "✗ %d of %d documents failed\n", failed, len(items))
				return fmt.Errorf("%d documents failed to normalize", failed)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFormat, "input", "i", "", "Input format (auto, json, yaml)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format (json, yaml)")
	cmd.Flags().IntVar(&concurrency, "concurrency", batch.DefaultConcurrency, "Maximum documents processed at once")

	return cmd
}
