package cli

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/graph"
	"github.com/matzehuels/ontomask/pkg/pipeline"
)

// newStatsCmd creates the "stats" command: per-term reachability statistics
// for a graph, either as a plain listing or an interactive browser.
func newStatsCmd() *cobra.Command {
	var (
		top         int
		bottom      int
		budget      int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "stats <graph.json>",
		Short: "Show per-term reachability statistics",
		Long: `Stats annotates every term with its depth, descendant count, reachable
gene count, and direct gene count. The thresholds mark which terms a trim at
(--top, --bottom) would remove.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			d, depth, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read graph %s", args[0])
			}

			p := newProgress(logger)
			annots, err := pipeline.BuildAnnotations(d, depth, budget)
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Annotated %d terms", len(annots)))

			sort.Slice(annots, func(i, j int) bool {
				if annots[i].Depth != annots[j].Depth {
					return annots[i].Depth < annots[j].Depth
				}
				return annots[i].Term < annots[j].Term
			})

			if interactive {
				model := NewTermListModel(annots, top, bottom)
				final, err := tea.NewProgram(model).Run()
				if err != nil {
					return fmt.Errorf("run term browser: %w", err)
				}
				if m, ok := final.(TermListModel); ok && m.Selected != nil {
					printTermDetail(m.Selected.Annotation)
				}
				return nil
			}

			topRemoved, bottomRemoved := pipeline.SelectTrimTerms(annots, top, bottom)
			printSuccess("%d terms · %d genes", d.TermCount(), len(d.Genes()))
			printKeyValue("too generic", fmt.Sprintf("%d (> %d reachable genes)", len(topRemoved), top))
			printKeyValue("too specific", fmt.Sprintf("%d (< %d reachable genes)", len(bottomRemoved), bottom))
			printNewline()
			for _, a := range annots {
				printDetail("%-24s depth %d · %d desc · %d reachable genes · %d direct",
					a.Term, a.Depth, a.Descendants, a.DescGenes, a.Genes)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", pipeline.DefaultTopThresh, "top trim threshold")
	cmd.Flags().IntVar(&bottom, "bottom", pipeline.DefaultBottomThresh, "bottom trim threshold")
	cmd.Flags().IntVar(&budget, "budget", 0, "traversal visit budget (0 = default)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse terms interactively")

	return cmd
}

// printTermDetail prints one term's full annotation.
func printTermDetail(a pipeline.Annotation) {
	printNewline()
	fmt.Println(StyleTitle.Render(a.Term))
	printKeyValue("depth", fmt.Sprintf("%d", a.Depth))
	printKeyValue("children", fmt.Sprintf("%d", a.Children))
	printKeyValue("parents", fmt.Sprintf("%d", a.Parents))
	printKeyValue("descendants", fmt.Sprintf("%d", a.Descendants))
	printKeyValue("desc genes", fmt.Sprintf("%d", a.DescGenes))
	printKeyValue("direct genes", fmt.Sprintf("%d", a.Genes))
}
