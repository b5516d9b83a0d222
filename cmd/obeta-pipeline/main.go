// Package main implements the obeta-pipeline CLI: ETL phases, source
// watching, report rendering and operator token management without going
// through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/Appy-Anand/obeta-project/internal/application/pipeline"
	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/csvsource"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/export"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/postgres"
	"github.com/Appy-Anand/obeta-project/pkg/config"
	"github.com/Appy-Anand/obeta-project/pkg/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "obeta-pipeline",
	Short: "Warehouse pick ETL pipeline and reporting toolbox",
	Long: `obeta-pipeline drives the order picking ETL from the command line.

The pipeline moves data through three layers: raw CSVs are loaded into the
staging schema, curated into the star schema, and aggregated into KPI mart
files. Each phase can run on its own or as one full run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(curateCmd)
	rootCmd.AddCommand(martsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles the wiring shared by every database-backed command.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	pool     *pgxpool.Pool
	source   *csvsource.Source
	pipeline *pipeline.Usecase
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: logLevel})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}

	pipelineCfg, err := pipelineConfig(cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	source := csvsource.New(cfg.Pipeline.DataDir)
	uc := pipeline.NewUsecase(
		source,
		postgres.NewStagingRepository(pool),
		postgres.NewTxRunner(pool),
		postgres.NewAnalyticsRepository(pool),
		export.NewWriter(cfg.Pipeline.DataDir),
		postgres.NewRunRepository(pool),
		pipelineCfg,
		log.WithComponent("pipeline").Zerolog(),
	)

	return &app{cfg: cfg, log: log, pool: pool, source: source, pipeline: uc}, nil
}

func (a *app) close() { a.pool.Close() }

func pipelineConfig(cfg *config.Config) (pipeline.Config, error) {
	start, err := time.Parse("2006-01-02", cfg.Pipeline.DateDimStart)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("parse date dimension start: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.Pipeline.DateDimEnd)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("parse date dimension end: %w", err)
	}
	return pipeline.Config{
		DateDimStart: start,
		DateDimEnd:   end,
		TopNProducts: cfg.Pipeline.TopNProducts,
	}, nil
}

// executePhase is the shared body of the stage, curate, marts and run
// commands: wire the app, run one phase synchronously, print the outcome.
func executePhase(cmd *cobra.Command, phase string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	run, err := a.pipeline.Execute(ctx, phase)
	if err != nil {
		return err
	}
	printRun(cmd, run)
	return nil
}

func printRun(cmd *cobra.Command, run *entity.PipelineRun) {
	cmd.Printf("run %s (%s) %s in %s\n",
		run.ID, run.Phase, run.Status, runDuration(run))
	for table, rows := range run.RowCounts {
		cmd.Printf("  %-40s %d\n", table, rows)
	}
	for kind, count := range run.Anomalies {
		cmd.Printf("  anomaly %-32s %d\n", kind, count)
	}
}

func runDuration(run *entity.PipelineRun) time.Duration {
	if run.FinishedAt == nil {
		return 0
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)
}
