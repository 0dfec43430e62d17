// Command pmctl inspects the tool catalog and summarises metrics exposition text.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

// options are the persistent flags shared by every subcommand.
type options struct {
	catalogFile string
	jsonOutput  bool
	noColor     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "pmctl",
		Short: "Project-manager tool catalog and metrics utility",
		Long: `pmctl works with the project-manager tool catalog offline.

  pmctl tools                        List catalog tools
  pmctl build <id> key=value...      Show the HTTP request a tool call produces
  pmctl metrics [file|-]             Summarise Prometheus exposition text by endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "TOML catalog file (default: built-in catalog)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		toolsCmd(opts),
		buildCmd(opts),
		metricsCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

func (o *options) loadCatalog() (*catalog.Catalog, error) {
	if o.catalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(o.catalogFile)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pmctl %s\n", config.GetFullVersion())
		},
	}
}
