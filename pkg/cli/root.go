package cli

import (
	"github.com/mcpchecker/envelope/pkg/config"
	"github.com/mcpchecker/envelope/pkg/util"
	"github.com/spf13/cobra"
)

// Version is reported by the root command and the MCP server.
var Version = "dev"

type globalOptions struct {
	configFile string
	verbose    bool
}

// NewRootCmd creates the root envelope command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "envelope",
		Short: "Normalize values into a result envelope",
		Long: `envelope wraps any JSON or YAML value in a {"result": ...} envelope.
Mappings that carry a "data" key have that value unwrapped instead.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := util.WithVerbose(cmd.Context(), opts.verbose)
			cmd.SetContext(util.WithLogOutput(ctx, cmd.ErrOrStderr()))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a Normalizer config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(NewNormalizeCmd(opts))
	rootCmd.AddCommand(NewBatchCmd(opts))
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configFile == "" {
		return config.Default(), nil
	}
	return config.FromFile(o.configFile)
}
