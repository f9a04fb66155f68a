// Command ontomask trims ontology graphs and builds the binary masks that
// wire ontology structure into neural network layers.
package main

import (
	"os"

	"github.com/matzehuels/ontomask/internal/cli"
	"github.com/matzehuels/ontomask/pkg/buildinfo"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
