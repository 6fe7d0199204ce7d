package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/cintel/internal/metrics"
	"github.com/rshade/cintel/internal/tui"
)

// runDashboard starts the configured dashboard. On a terminal it runs the interactive
// program (alongside the metrics endpoint when configured); otherwise it prints one snapshot.
func runDashboard(cmd *cobra.Command, st *appState) error {
	ctx := cmd.Context()
	rec := metrics.NewRecorder()

	rt, err := startRuntime(ctx, st.cfg, rec, nil)
	if err != nil {
		return err
	}

	if st.mode != tui.OutputModeInteractive {
		if st.cfg.Metrics.Addr != "" {
			logger.Debug().Str("addr", st.cfg.Metrics.Addr).Msg("metrics endpoint only runs with the interactive dashboard")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSnapshot(rt, tui.TerminalWidth(), st.mode))
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	if addr := st.cfg.Metrics.Addr; addr != "" {
		g.Go(func() error {
			return rec.Serve(runCtx, addr)
		})
	}
	g.Go(func() error {
		defer cancel()
		return tui.Run(runCtx, rt)
	})

	if err = g.Wait(); err != nil {
		return fmt.Errorf("dashboard %q: %w", st.cfg.Dashboard, err)
	}
	logger.Info().Msg("dashboard closed")
	return nil
}
