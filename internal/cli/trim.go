package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/graph"
	"github.com/matzehuels/ontomask/pkg/pipeline"
	"github.com/matzehuels/ontomask/pkg/store"
)

// newTrimCmd creates the "trim" command: run the full annotate → trim → mask
// pipeline over a base graph file.
func newTrimCmd(configPath *string) *cobra.Command {
	var (
		top         int
		bottom      int
		orientation string
		out         string
		masksOut    string
		refresh     bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "trim <graph.json>",
		Short: "Trim a graph by reachable gene count and build its mask stack",
		Long: `Trim removes terms that are too generic (reachable gene count above the
top threshold) or too specific (below the bottom threshold) from a graph.
Genes of bottom-trimmed terms are merged into their surviving parents; genes
of top-trimmed terms are discarded. The trimmed graph and its mask stack are
written as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if top == 0 {
				top = cfg.Trim.TopThresh
			}
			if bottom == 0 {
				bottom = cfg.Trim.BottomThresh
			}
			if orientation == "" {
				orientation = cfg.Mask.Orientation
			}
			if noCache {
				cfg.Cache.Backend = "none"
			}

			base, depth, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read graph %s", args[0])
			}
			logger.Debug("loaded graph", "terms", base.TermCount(), "entries", base.Len())

			c, err := openCache(ctx, cfg.Cache, logger)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(c, nil, store.NewMemoryStore(), logger)
			defer runner.Close()

			opts := pipeline.Options{
				TopThresh:    top,
				BottomThresh: bottom,
				Orientation:  orientation,
				VisitBudget:  cfg.Trim.VisitBudget,
				Refresh:      refresh,
				Logger:       logger,
			}

			sp := newSpinnerWithContext(ctx, fmt.Sprintf("Trimming with thresholds (%d, %d)...", top, bottom))
			sp.Start()
			p := newProgress(logger)
			res, err := runner.Execute(ctx, base, depth, opts)
			sp.Stop()
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Trimmed to %d terms", res.Stats.TermCount))

			printSuccess("Trimmed configuration %s", StyleHighlight.Render(res.Config))
			printGraphStats(res.Stats.TermCount, res.Stats.GeneCount, res.CacheInfo.TrimHit)
			printDetail("top removed: %d · bottom removed: %d · genes merged: %d · genes dropped: %d",
				len(res.Trim.TopRemoved), len(res.Trim.BottomRemoved), res.Trim.MergedGenes, res.Trim.DroppedGenes)
			if len(res.Trim.PromotedRoots) > 0 {
				printWarning("promoted to roots: %v", res.Trim.PromotedRoots)
			}

			if out == "" {
				out = fmt.Sprintf("trimmed_%s.json", res.Config)
			}
			if err := graph.WriteGraphFile(res.DAG, res.Depth, out); err != nil {
				return err
			}
			printFile(out)

			if masksOut != "" {
				data, err := json.MarshalIndent(res.Masks, "", "  ")
				if err != nil {
					return fmt.Errorf("encode masks: %w", err)
				}
				if err := os.WriteFile(masksOut, data, 0o644); err != nil {
					return fmt.Errorf("write masks %s: %w", masksOut, err)
				}
				printFile(masksOut)
			} else {
				printNewline()
				printNextStep("Build masks", fmt.Sprintf("ontomask masks %s", out))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "top trim threshold (reachable gene count)")
	cmd.Flags().IntVar(&bottom, "bottom", 0, "bottom trim threshold (reachable gene count)")
	cmd.Flags().StringVar(&orientation, "orientation", "", "mask stack orientation (decoder|encoder)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path for the trimmed graph")
	cmd.Flags().StringVar(&masksOut, "masks-out", "", "also write the mask stack to this path")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and recompute")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching for this run")

	return cmd
}
