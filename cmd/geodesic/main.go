// Command geodesic derives the symbolic equations of motion of free
// fall in a given spacetime metric.
package main

import (
	"os"

	"github.com/chrvill/Geodesic-EOM-deriver/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
