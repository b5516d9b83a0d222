package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the data directory and run the pipeline on new source files",
	Long: `Watches the data directory for changes to the three source CSVs.
Once all files are present and have been quiet for the debounce window,
a full pipeline run starts. Stops on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		log := a.log.WithComponent("watch").Zerolog()
		trigger := func(ctx context.Context) {
			run, err := a.pipeline.Execute(ctx, entity.PhaseFull)
			switch {
			case errors.Is(err, domain.ErrRunInProgress):
				log.Info().Msg("run already in progress, skipping trigger")
			case err != nil:
				log.Error().Err(err).Msg("triggered run failed")
			default:
				log.Info().Str("run_id", run.ID).Str("status", run.Status).Msg("triggered run finished")
			}
		}

		w := watch.New(a.source.Dir(), a.source.Files(), a.cfg.Pipeline.WatchDebounce, trigger, log)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
