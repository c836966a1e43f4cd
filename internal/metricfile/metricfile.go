// Package metricfile loads user-defined metrics from YAML definition
// files.
//
// A definition names the spacetime, lists its coordinates and free
// parameters, and gives the covariant component matrix as expression
// strings:
//
//	name: schwarzschild
//	coordinates: [t, r, theta, phi]
//	parameters: [M]
//	components:
//	  - ["-(1 - 2*M/r)", "0", "0", "0"]
//	  - ["0", "(1 - 2*M/r)^-1", "0", "0"]
//	  - ["0", "0", "r^2", "0"]
//	  - ["0", "0", "0", "r^2*sin(theta)^2"]
//
// Every symbol appearing in a component must be declared as a
// coordinate or a parameter; anything else is a validation error, as
// is a component grid that is not square in the coordinate count.
package metricfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/expr"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/matrix"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/metric"
	"github.com/chrvill/Geodesic-EOM-deriver/internal/preset"
)

// Definition is the on-disk shape of a metric definition file.
type Definition struct {
	// Name identifies the spacetime.
	Name string `yaml:"name"`

	// Coordinates lists the coordinate symbols, in order.
	Coordinates []string `yaml:"coordinates"`

	// Parameters lists non-coordinate free symbols (masses, spins).
	Parameters []string `yaml:"parameters,omitempty"`

	// Components is the covariant metric matrix, row by row, each
	// entry an expression over coordinates and parameters.
	Components [][]string `yaml:"components"`
}

// Load reads and parses a definition file. The definition is validated
// but not yet built; call Build for the Metric.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("metricfile: %w", err)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("metricfile: %s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("metricfile: %s: %w", path, err)
	}
	return &def, nil
}

// Validate checks the definition's shape: a name, at least one
// coordinate, distinct symbol declarations, and a square component
// grid matching the coordinate count.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("missing name")
	}
	n := len(d.Coordinates)
	if n == 0 {
		return fmt.Errorf("metric %q: no coordinates", d.Name)
	}
	seen := map[string]string{}
	for _, c := range d.Coordinates {
		if prev, dup := seen[c]; dup {
			return fmt.Errorf("metric %q: symbol %q declared as %s and coordinate", d.Name, c, prev)
		}
		seen[c] = "coordinate"
	}
	for _, p := range d.Parameters {
		if prev, dup := seen[p]; dup {
			return fmt.Errorf("metric %q: symbol %q declared as %s and parameter", d.Name, p, prev)
		}
		seen[p] = "parameter"
	}
	if len(d.Components) != n {
		return fmt.Errorf("metric %q: %d component rows for %d coordinates", d.Name, len(d.Components), n)
	}
	for i, row := range d.Components {
		if len(row) != n {
			return fmt.Errorf("metric %q: component row %d has %d entries, want %d", d.Name, i, len(row), n)
		}
	}
	return nil
}

// Build parses the component expressions and constructs the Metric.
// It fails if an entry does not parse, references an undeclared
// symbol, or if metric construction itself fails (e.g. a singular
// component matrix). The definition is re-validated first, so Build
// is safe on a Definition that never went through Load.
func (d *Definition) Build() (*preset.Preset, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	declared := map[string]bool{}
	for _, c := range d.Coordinates {
		declared[c] = true
	}
	for _, p := range d.Parameters {
		declared[p] = true
	}

	n := len(d.Coordinates)
	rows := make([][]expr.Expr, n)
	for i := range rows {
		rows[i] = make([]expr.Expr, n)
		for j, src := range d.Components[i] {
			e, err := expr.Parse(src)
			if err != nil {
				return nil, fmt.Errorf("metric %q: component [%d][%d]: %w", d.Name, i, j, err)
			}
			for _, s := range expr.FreeSymbols(e) {
				if !declared[s.Name()] {
					return nil, fmt.Errorf("metric %q: component [%d][%d]: undeclared symbol %q", d.Name, i, j, s.Name())
				}
			}
			rows[i][j] = e
		}
	}

	g, err := matrix.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("metric %q: %w", d.Name, err)
	}
	m, err := metric.New(g, expr.Syms(d.Coordinates...))
	if err != nil {
		return nil, fmt.Errorf("metric %q: %w", d.Name, err)
	}

	symbols := expr.Syms(append(append([]string(nil), d.Coordinates...), d.Parameters...)...)
	return &preset.Preset{
		Name:        d.Name,
		Description: fmt.Sprintf("user-defined metric (%s)", d.Name),
		Metric:      m,
		Symbols:     symbols,
	}, nil
}
