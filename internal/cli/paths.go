package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/graph"
	"github.com/matzehuels/ontomask/pkg/onto"
)

// newPathsCmd creates the "paths" command: enumerate the simple parent-ward
// paths between two nodes of a graph.
func newPathsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "paths <graph.json> <start> <end>",
		Short: "Enumerate simple paths from one node up to another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, start, end := args[0], args[1], args[2]
			if err := errors.ValidateNodeID(start); err != nil {
				return err
			}
			if err := errors.ValidateNodeID(end); err != nil {
				return err
			}

			d, _, err := graph.ReadGraphFile(file)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read graph %s", file)
			}

			paths, truncated := onto.Paths(d.Mapping(), start, end, limit)
			if len(paths) == 0 {
				printInfo("No path from %s to %s", start, end)
				return nil
			}

			printSuccess("%d path(s) from %s to %s",
				len(paths), StyleHighlight.Render(start), StyleHighlight.Render(end))
			for _, p := range paths {
				printDetail("%s", strings.Join(p, " "+iconArrow+" "))
			}
			if truncated {
				printWarning("output truncated at %d paths", limit)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of paths to enumerate (0 = unlimited)")
	return cmd
}
