package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mcpchecker/envelope/pkg/codec"
	"github.com/mcpchecker/envelope/pkg/normalize"
	"github.com/mcpchecker/envelope/pkg/util"
	"github.com/spf13/cobra"
)

// NewNormalizeCmd creates the normalize command
func NewNormalizeCmd(global *globalOptions) *cobra.Command {
	var (
		inputFormat  string
		outputFormat string
		value        string
		explain      bool
	)

	cmd := &cobra.Command{
		Use:   "normalize [file|-]",
		Short: "Wrap a single document in a result envelope",
		Long: `Read one JSON or YAML document and print its result envelope.

Examples:
  envelope normalize input.json
  echo '{"data": "important info"}' | envelope normalize
  envelope normalize --value 42 -o yaml`,
		Args: cobra.MaximumNArgs(1),
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

			data, err := readInput(cmd, args, value)
			if err != nil {
				return err
			}

			input, err := codec.Decode(data, in)
			if err != nil {
				return err
			}

			shape := normalize.Classify(input)
			env := normalize.Normalize(input)
			util.Debugf(cmd.Context(), "decoded %d bytes as %s input", len(data), shape)

			if explain {
				printExplanation(cmd.ErrOrStderr(), input, shape)
			}

			return codec.Encode(cmd.OutOrStdout(), env, out)
		},
	}

	cmd.Flags().StringVarP(&inputFormat, "input", "i", "", "Input format (auto, json, yaml)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format (json, yaml)")
	cmd.Flags().StringVar(&value, "value", "", "Inline document to normalize instead of a file")
	cmd.Flags().BoolVar(&explain, "explain", false, "Describe how the input was classified on stderr")

	return cmd
}

// flagFormat returns the flag value when it was set, otherwise the
// configured fallback.
func flagFormat(cmd *cobra.Command, name, value string, fallback codec.Format) (codec.Format, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}

	f, err := codec.ParseFormat(value)
	if err != nil {
		return "", fmt.Errorf("invalid --%s: %w", name, err)
	}
	if name == "output" && f == codec.FormatAuto {
		return "", errors.New("invalid --output: auto is only valid for input")
	}
	return f, nil
}

func readInput(cmd *cobra.Command, args []string, value string) ([]byte, error) {
	if cmd.Flags().Changed("value") {
		if len(args) > 0 {
			return nil, errors.New("cannot use --value together with an input file")
		}
		return []byte(value), nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

func printExplanation(w io.Writer, input any, shape normalize.Shape) {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Fprintf(w, "shape: %s\n", shape)

	if shape != normalize.ShapeMapping {
		fmt.Fprintln(w, "  → wrapped unchanged")
		return
	}

	if _, ok := normalize.DataValue(input); !ok {
		yellow.Fprintf(w, "  → no usable %q key, whole mapping wrapped\n", normalize.DataKey)
		return
	}

	fmt.Fprintf(w, "  → %q key unwrapped\n", normalize.DataKey)
}
