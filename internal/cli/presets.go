package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/preset"
)

// PresetInfo is the JSON shape of one registry entry.
type PresetInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Dim         int      `json:"dim"`
	Coordinates []string `json:"coordinates"`
	Parameters  []string `json:"parameters,omitempty"`
}

// NewPresetsCommand creates the presets command.
func NewPresetsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "presets",
		Short:        "List the built-in metric presets",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresets(rootOpts, cmd)
		},
	}
}

func runPresets(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	infos := make([]PresetInfo, 0, len(preset.Names()))
	for _, name := range preset.Names() {
		p, err := preset.Lookup(name)
		if err != nil {
			return err
		}
		infos = append(infos, PresetInfo{
			Name:        p.Name,
			Description: p.Description,
			Dim:         p.Metric.Dim(),
			Coordinates: symbolNames(p.Metric.Coordinates()),
			Parameters:  symbolNames(p.Parameters()),
		})
	}

	if formatter.JSON() {
		return formatter.EmitJSON(infos)
	}
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%-15s %s\n", info.Name, info.Description)
	}
	return nil
}
