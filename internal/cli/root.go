// Package cli implements the geodesic command tree.
//
// Commands print to their cobra out/err streams only; verbose
// diagnostics go to stderr so JSON output on stdout stays parseable.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "latex"
}

// ValidFormats defines the allowed output formats. "latex" affects
// expression rendering only; structural output stays textual.
var ValidFormats = []string{"text", "json", "latex"}

// NewRootCommand creates the root command for the geodesic CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "geodesic",
		Short: "Derive geodesic equations of motion from spacetime metrics",
		Long: `geodesic derives, in closed symbolic form, the Christoffel symbols and
the geodesic equation right-hand sides of a spacetime metric - either a
built-in preset (kerr, schwarzschild, minkowski) or a YAML metric
definition file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|latex)")

	cmd.AddCommand(NewDeriveCommand(opts))
	cmd.AddCommand(NewPresetsCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
