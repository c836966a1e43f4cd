package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/expr"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/metric"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/preset"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/testutil"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	File string
}

// CheckReport is the JSON shape of a conformance run.
type CheckReport struct {
	Name   string        `json:"name"`
	Passed bool          `json:"passed"`
	Checks []CheckResult `json:"checks"`
}

// CheckResult is the outcome of one numeric identity check.
type CheckResult struct {
	Name     string  `json:"name"`
	Passed   bool    `json:"passed"`
	MaxError float64 `json:"max_error"`
}

// checkTol bounds the acceptable numeric residual of the identities.
const checkTol = 1e-8

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [preset]",
		Short: "Numerically verify the derived tensors",
		Long: `Verify, at a sample point, the identities any correct derivation must
satisfy: g * g_inv is the identity matrix, the Christoffel symbols are
symmetric in their lower indices, and the covariant derivative of the
metric vanishes.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "YAML metric definition file")

	return cmd
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
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

	env := sampleEnv(p)
	formatter.VerboseLog("Sample point: %v", env)

	report := &CheckReport{Name: p.Name, Passed: true}
	for _, c := range []struct {
		name string
		run  func(*metric.Metric, map[string]float64) (float64, error)
	}{
		{"inverse-identity", checkInverseIdentity},
		{"christoffel-symmetry", checkSymmetry},
		{"metric-compatibility", checkCompatibility},
	} {
		maxErr, err := c.run(p.Metric, env)
		if err != nil {
			return WrapExitError(ExitCommandError,
				fmt.Sprintf("check %s could not be evaluated at the sample point", c.name), err)
		}
		passed := maxErr <= checkTol
		report.Checks = append(report.Checks, CheckResult{Name: c.name, Passed: passed, MaxError: maxErr})
		report.Passed = report.Passed && passed
	}

	if formatter.JSON() {
		if err := formatter.EmitJSON(report); err != nil {
			return err
		}
	} else {
		for _, c := range report.Checks {
			status := "ok"
			if !c.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(formatter.Writer, "%-4s %-22s max error %.2e\n", status, c.Name, c.MaxError)
		}
	}

	if !report.Passed {
		return NewExitError(ExitCheckFailure, fmt.Sprintf("metric %q failed conformance checks", p.Name))
	}
	return nil
}

// sampleEnv picks a sample assignment for every free symbol of the
// preset, from the shared table of physically sensible defaults
// (exterior region, off-axis).
func sampleEnv(p *preset.Preset) map[string]float64 {
	return testutil.SampleEnv(p.Symbols)
}

// checkInverseIdentity evaluates sum_k g[i,k]*g_inv[k,j] against the
// identity matrix.
func checkInverseIdentity(m *metric.Metric, env map[string]float64) (float64, error) {
	maxErr := 0.0
	for i := 0; i < m.Dim(); i++ {
		for j := 0; j < m.Dim(); j++ {
			sum := 0.0
			for k := 0; k < m.Dim(); k++ {
				gik, err := expr.Eval(m.Covariant().At(i, k), env)
				if err != nil {
					return 0, err
				}
				ginvkj, err := expr.Eval(m.Contravariant().At(k, j), env)
				if err != nil {
					return 0, err
				}
				sum += gik * ginvkj
			}
			want := 0.0
			if i == j {
				want = 1.0
			}
			maxErr = math.Max(maxErr, math.Abs(sum-want))
		}
	}
	return maxErr, nil
}

// checkSymmetry evaluates Gamma^mu_{rho,sigma} - Gamma^mu_{sigma,rho}.
func checkSymmetry(m *metric.Metric, env map[string]float64) (float64, error) {
	maxErr := 0.0
	for mu := 0; mu < m.Dim(); mu++ {
		for rho := 0; rho < m.Dim(); rho++ {
			for sigma := rho + 1; sigma < m.Dim(); sigma++ {
				a, err := expr.Eval(m.Christoffel(mu, rho, sigma), env)
				if err != nil {
					return 0, err
				}
				b, err := expr.Eval(m.Christoffel(mu, sigma, rho), env)
				if err != nil {
					return 0, err
				}
				maxErr = math.Max(maxErr, math.Abs(a-b))
			}
		}
	}
	return maxErr, nil
}

// checkCompatibility evaluates the covariant derivative of the metric,
// d_lam g[mu,nu] - sum_k (Gamma^k_{lam,mu} g[k,nu] + Gamma^k_{lam,nu} g[k,mu]),
// which must vanish identically for a Levi-Civita connection.
func checkCompatibility(m *metric.Metric, env map[string]float64) (float64, error) {
	maxErr := 0.0
	for lam := 0; lam < m.Dim(); lam++ {
		for mu := 0; mu < m.Dim(); mu++ {
			for nu := 0; nu < m.Dim(); nu++ {
				res, err := expr.Eval(m.Deriv(mu, nu, lam), env)
				if err != nil {
					return 0, err
				}
				for k := 0; k < m.Dim(); k++ {
					g1, err := expr.Eval(m.Christoffel(k, lam, mu), env)
					if err != nil {
						return 0, err
					}
					gkv, err := expr.Eval(m.Covariant().At(k, nu), env)
					if err != nil {
						return 0, err
					}
					g2, err := expr.Eval(m.Christoffel(k, lam, nu), env)
					if err != nil {
						return 0, err
					}
					gku, err := expr.Eval(m.Covariant().At(k, mu), env)
					if err != nil {
						return 0, err
					}
					res -= g1*gkv + g2*gku
				}
				maxErr = math.Max(maxErr, math.Abs(res))
			}
		}
	}
	return maxErr, nil
}
