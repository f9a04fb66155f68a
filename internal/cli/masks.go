package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/graph"
	"github.com/matzehuels/ontomask/pkg/onto/mask"
)

// newMasksCmd creates the "masks" command: build the binary mask stack from
// an already trimmed graph file.
func newMasksCmd(configPath *string) *cobra.Command {
	var (
		orientation string
		out         string
	)

	cmd := &cobra.Command{
		Use:   "masks <trimmed.json>",
		Short: "Build binary connectivity masks from a trimmed graph",
		Long: `Masks builds one binary matrix per adjacent depth-level pair of the
graph: entry (r, c) is 1 iff column node c is a direct parent of row node r.
Decoder orientation orders the stack root → leaf, encoder leaf → root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if orientation == "" {
				orientation = cfg.Mask.Orientation
			}

			d, depth, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read graph %s", args[0])
			}

			p := newProgress(logger)
			masks := mask.Stack(depth, d, mask.ParseOrientation(orientation))
			p.done(fmt.Sprintf("Built %d masks", len(masks)))

			printSuccess("Built %s mask stack", StyleHighlight.Render(orientation))
			for _, m := range masks {
				rows, cols := m.Shape()
				printDetail("level %d → %d: %d × %d", m.ChildLevel, m.ParentLevel, rows, cols)
			}

			if out == "" {
				out = fmt.Sprintf("masks_%s.json", orientation)
			}
			data, err := json.MarshalIndent(masks, "", "  ")
			if err != nil {
				return fmt.Errorf("encode masks: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write masks %s: %w", out, err)
			}
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&orientation, "orientation", "", "mask stack orientation (decoder|encoder)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path for the mask stack")

	return cmd
}
