package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontomask/internal/api"
	onterrors "github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/graph"
	"github.com/matzehuels/ontomask/pkg/pipeline"
)

// newServeCmd creates the "serve" command: run the HTTP API over a base
// graph file.
func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <graph.json>",
		Short: "Serve the trim/mask API over HTTP",
		Long: `Serve loads a base graph and exposes the pipeline over HTTP:
POST /v1/trims runs a trim, GET /v1/trims lists stored variants, and
GET /v1/trims/{config}/masks rebuilds a mask stack for a trimmed
configuration. The store and cache backends come from the configuration
file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.ListenAddr
			}

			base, depth, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return onterrors.Wrap(onterrors.ErrCodeFileNotFound, err, "read graph %s", args[0])
			}

			c, err := openCache(ctx, cfg.Cache, logger)
			if err != nil {
				return err
			}
			st, err := openStore(ctx, cfg.Store, logger)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = st.Close(shutdownCtx)
			}()

			runner := pipeline.NewRunner(c, nil, st, logger)
			defer runner.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(base, depth, runner, logger).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", addr, "terms", base.TermCount())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config server.listen_addr)")
	return cmd
}
