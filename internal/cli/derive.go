package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/expr"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/metricfile"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/preset"
)

// DeriveOptions holds flags for the derive command.
type DeriveOptions struct {
	*RootOptions
	File string // YAML metric definition, used instead of a preset name
	All  bool   // list all Christoffel symbols, zero ones included
}

// DerivationReport is the JSON shape of a derivation.
type DerivationReport struct {
	Name         string             `json:"name"`
	Dim          int                `json:"dim"`
	Coordinates  []string           `json:"coordinates"`
	Velocities   []string           `json:"velocities"`
	Parameters   []string           `json:"parameters,omitempty"`
	Christoffels []ChristoffelEntry `json:"christoffel_symbols"`
	GeodesicRHS  []string           `json:"geodesic_rhs"`
}

// ChristoffelEntry is one rendered Christoffel symbol. Only the
// representative with Rho <= Sigma is listed; the symbol is symmetric
// in its lower indices.
type ChristoffelEntry struct {
	Mu    int    `json:"mu"`
	Rho   int    `json:"rho"`
	Sigma int    `json:"sigma"`
	Expr  string `json:"expr"`
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeriveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "derive [preset]",
		Short: "Derive Christoffel symbols and geodesic equations",
		Long: `Derive the Christoffel symbols and the right-hand side of the geodesic
equation for a named preset, or for a YAML metric definition given
with --file.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "YAML metric definition file")
	cmd.Flags().BoolVar(&opts.All, "all", false, "include vanishing Christoffel symbols")

	return cmd
}

func runDerive(opts *DeriveOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	p, err := resolveMetric(opts.File, args, formatter)
	if err != nil {
		return err
	}

	render := expr.Format
	if opts.Format == "latex" {
		render = expr.LaTeX
	}
	report := buildReport(p, opts.All, render)

	if formatter.JSON() {
		return formatter.EmitJSON(report)
	}
	writeReportText(formatter.Writer, report, opts.All)
	return nil
}

// resolveMetric builds the requested metric from --file or a preset
// name. Exactly one of the two must be given.
func resolveMetric(file string, args []string, formatter *OutputFormatter) (*preset.Preset, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, NewExitError(ExitCommandError, "give either a preset name or --file, not both")
	case file != "":
		formatter.VerboseLog("Loading metric definition from %s", file)
		def, err := metricfile.Load(file)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "loading metric definition", err)
		}
		formatter.VerboseLog("Building metric %q (dim %d)", def.Name, len(def.Coordinates))
		p, err := def.Build()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "building metric", err)
		}
		return p, nil
	case len(args) == 1:
		p, err := preset.Lookup(args[0])
		if err != nil {
			if errors.Is(err, preset.ErrNotFound) {
				return nil, WrapExitError(ExitCommandError,
					fmt.Sprintf("unknown preset (known: %s)", strings.Join(preset.Names(), ", ")), err)
			}
			return nil, err
		}
		return p, nil
	}
	return nil, NewExitError(ExitCommandError, "a preset name or --file is required")
}

func buildReport(p *preset.Preset, all bool, render func(expr.Expr) string) *DerivationReport {
	m := p.Metric
	report := &DerivationReport{
		Name:        p.Name,
		Dim:         m.Dim(),
		Coordinates: symbolNames(m.Coordinates()),
		Velocities:  symbolNames(m.Velocities()),
		Parameters:  symbolNames(p.Parameters()),
	}
	for mu := 0; mu < m.Dim(); mu++ {
		for rho := 0; rho < m.Dim(); rho++ {
			for sigma := rho; sigma < m.Dim(); sigma++ {
				gamma := m.Christoffel(mu, rho, sigma)
				if !all && expr.IsZero(gamma) {
					continue
				}
				report.Christoffels = append(report.Christoffels, ChristoffelEntry{
					Mu: mu, Rho: rho, Sigma: sigma, Expr: render(gamma),
				})
			}
		}
	}
	for mu := 0; mu < m.Dim(); mu++ {
		report.GeodesicRHS = append(report.GeodesicRHS, render(m.GeodesicRHS(mu)))
	}
	return report
}

func writeReportText(w io.Writer, r *DerivationReport, all bool) {
	label := "Nonzero Christoffel symbols"
	if all {
		label = "Christoffel symbols"
	}
	fmt.Fprintf(w, "Metric: %s (dim %d)\n", r.Name, r.Dim)
	fmt.Fprintf(w, "Coordinates: %s\n", strings.Join(r.Coordinates, ", "))
	if len(r.Parameters) > 0 {
		fmt.Fprintf(w, "Parameters: %s\n", strings.Join(r.Parameters, ", "))
	}
	fmt.Fprintf(w, "Velocities: %s\n", strings.Join(r.Velocities, ", "))
	if len(r.Christoffels) == 0 {
		fmt.Fprintf(w, "%s: (none)\n", label)
	} else {
		fmt.Fprintf(w, "%s:\n", label)
		for _, c := range r.Christoffels {
			fmt.Fprintf(w, "  Gamma^%d_{%d,%d} = %s\n", c.Mu, c.Rho, c.Sigma, c.Expr)
		}
	}
	fmt.Fprintln(w, "Geodesic equations:")
	for mu, rhs := range r.GeodesicRHS {
		fmt.Fprintf(w, "  d^2 x^%d / dlambda^2 = %s\n", mu, rhs)
	}
}

func symbolNames(syms []expr.Symbol) []string {
	if len(syms) == 0 {
		return nil
	}
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name()
	}
	return out
}
