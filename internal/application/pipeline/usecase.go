package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/calendar"
	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
	"github.com/Appy-Anand/obeta-project/internal/metrics"
)

// Config carries the pipeline tunables resolved at startup.
type Config struct {
	// Date dimension bounds, inclusive.
	DateDimStart time.Time
	DateDimEnd   time.Time
	// TopNProducts ranks kept per week in the top products mart.
	TopNProducts int
}

// Usecase orchestrates the staging, curation and mart phases with run
// bookkeeping. At most one run executes at a time; concurrent starts get
// domain.ErrRunInProgress.
type Usecase struct {
	source    SourceReader
	staging   repository.StagingRepository
	curation  CurationTxRunner
	analytics repository.AnalyticsRepository
	exporter  MartExporter
	runs      repository.RunRepository
	cfg       Config
	log       zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewUsecase wires the pipeline orchestrator.
func NewUsecase(
	source SourceReader,
	staging repository.StagingRepository,
	curation CurationTxRunner,
	analytics repository.AnalyticsRepository,
	exporter MartExporter,
	runs repository.RunRepository,
	cfg Config,
	log zerolog.Logger,
) *Usecase {
	return &Usecase{
		source:    source,
		staging:   staging,
		curation:  curation,
		analytics: analytics,
		exporter:  exporter,
		runs:      runs,
		cfg:       cfg,
		log:       log,
	}
}

// Execute runs one phase synchronously and returns the finished run record.
// The returned error is the phase error; the run is persisted either way.
func (u *Usecase) Execute(ctx context.Context, phase string) (*entity.PipelineRun, error) {
	if !u.tryAcquire() {
		return nil, domain.ErrRunInProgress
	}
	defer u.release()

	run := newRun(phase)
	if err := u.runs.Create(ctx, run); err != nil {
		return run, err
	}
	err := u.perform(ctx, run)
	if finishErr := u.runs.Finish(ctx, run); finishErr != nil {
		u.log.Error().Err(finishErr).Str("run_id", run.ID).Msg("persist run outcome")
	}
	return run, err
}

// StartAsync begins a phase in the background and returns the running run
// record immediately. The run is detached from the caller's request context.
func (u *Usecase) StartAsync(phase string) (*entity.PipelineRun, error) {
	if !u.tryAcquire() {
		return nil, domain.ErrRunInProgress
	}

	ctx := context.Background()
	run := newRun(phase)
	if err := u.runs.Create(ctx, run); err != nil {
		u.release()
		return nil, err
	}

	started := *run
	go func() {
		defer u.release()
		_ = u.perform(ctx, run)
		if err := u.runs.Finish(ctx, run); err != nil {
			u.log.Error().Err(err).Str("run_id", run.ID).Msg("persist run outcome")
		}
	}()
	return &started, nil
}

// GetRun fetches one run record.
func (u *Usecase) GetRun(ctx context.Context, id string) (*entity.PipelineRun, error) {
	return u.runs.GetByID(ctx, id)
}

// ListRuns returns recent runs, newest first.
func (u *Usecase) ListRuns(ctx context.Context, limit int) ([]entity.PipelineRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return u.runs.ListRecent(ctx, limit)
}

func (u *Usecase) tryAcquire() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.running {
		return false
	}
	u.running = true
	return true
}

func (u *Usecase) release() {
	u.mu.Lock()
	u.running = false
	u.mu.Unlock()
}

func newRun(phase string) *entity.PipelineRun {
	return &entity.PipelineRun{
		ID:        uuid.NewString(),
		Phase:     phase,
		Status:    entity.RunStatusRunning,
		RowCounts: map[string]int64{},
		Anomalies: map[string]int64{},
		StartedAt: time.Now().UTC(),
	}
}

// perform executes the run's phase, records metrics and stamps the outcome
// onto the run record.
func (u *Usecase) perform(ctx context.Context, run *entity.PipelineRun) error {
	u.log.Info().Str("run_id", run.ID).Str("phase", run.Phase).Msg("pipeline run started")

	err := u.runPhase(ctx, run)

	now := time.Now().UTC()
	run.FinishedAt = &now
	if err != nil {
		run.Status = entity.RunStatusFailed
		run.Error = err.Error()
		metrics.RunFinished(entity.RunStatusFailed)
		u.log.Error().Err(err).Str("run_id", run.ID).Str("phase", run.Phase).Msg("pipeline run failed")
		return err
	}
	run.Status = entity.RunStatusSucceeded
	metrics.RunFinished(entity.RunStatusSucceeded)
	u.log.Info().
		Str("run_id", run.ID).
		Str("phase", run.Phase).
		Dur("took", now.Sub(run.StartedAt)).
		Interface("row_counts", run.RowCounts).
		Msg("pipeline run finished")
	return nil
}

func (u *Usecase) runPhase(ctx context.Context, run *entity.PipelineRun) error {
	switch run.Phase {
	case entity.PhaseStage:
		return u.timed(entity.PhaseStage, func() error { return u.stage(ctx, run) })
	case entity.PhaseCurate:
		return u.timed(entity.PhaseCurate, func() error { return u.curate(ctx, run) })
	case entity.PhaseMarts:
		return u.timed(entity.PhaseMarts, func() error { return u.exportMarts(ctx, run) })
	case entity.PhaseFull:
		return u.timed(entity.PhaseFull, func() error {
			if err := u.timed(entity.PhaseStage, func() error { return u.stage(ctx, run) }); err != nil {
				return err
			}
			if err := u.timed(entity.PhaseCurate, func() error { return u.curate(ctx, run) }); err != nil {
				return err
			}
			return u.timed(entity.PhaseMarts, func() error { return u.exportMarts(ctx, run) })
		})
	}
	return fmt.Errorf("%w: unknown phase %q", domain.ErrInvalidInput, run.Phase)
}

func (u *Usecase) timed(phase string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.ObservePhase(phase, time.Since(start))
	return err
}

// stage parses the three source files and truncate-reloads the staging
// tables. Re-running against unchanged sources yields the same content.
func (u *Usecase) stage(ctx context.Context, run *entity.PipelineRun) error {
	picks, anomalies, err := u.source.ReadPicks(ctx)
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	products, err := u.source.ReadProducts(ctx)
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	sections, err := u.source.ReadWarehouseSections(ctx)
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}

	n, err := u.staging.ReplacePicks(ctx, picks)
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	run.RowCounts["staging.pick_data"] = n
	metrics.RowsStaged("pick_data", n)

	n, err = u.staging.ReplaceProducts(ctx, products)
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	run.RowCounts["staging.product_details"] = n
	metrics.RowsStaged("product_details", n)

	n, err = u.staging.ReplaceWarehouseSections(ctx, sections)
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	run.RowCounts["staging.warehouse_sections"] = n
	metrics.RowsStaged("warehouse_sections", n)

	run.Anomalies["zero_volume"] = anomalies.ZeroVolume
	run.Anomalies["negative_volume"] = anomalies.NegativeVolume
	metrics.StagingAnomaly("zero_volume", anomalies.ZeroVolume)
	metrics.StagingAnomaly("negative_volume", anomalies.NegativeVolume)

	u.log.Info().
		Int64("picks", run.RowCounts["staging.pick_data"]).
		Int64("products", run.RowCounts["staging.product_details"]).
		Int64("sections", run.RowCounts["staging.warehouse_sections"]).
		Int64("zero_volume", anomalies.ZeroVolume).
		Int64("negative_volume", anomalies.NegativeVolume).
		Msg("staging loaded")
	return nil
}

// curate rebuilds the star schema from staging in one transaction.
func (u *Usecase) curate(ctx context.Context, run *entity.PipelineRun) error {
	days, err := calendar.Days(u.cfg.DateDimStart, u.cfg.DateDimEnd)
	if err != nil {
		return fmt.Errorf("curate: %w", err)
	}

	err = u.curation.RunCuration(ctx, func(repo repository.CurationRepository) error {
		n, err := repo.ReplaceDateDim(ctx, days)
		if err != nil {
			return err
		}
		run.RowCounts["curated.d_date"] = n

		n, err = repo.CurateProducts(ctx)
		if err != nil {
			return err
		}
		run.RowCounts["curated.d_product"] = n

		n, err = repo.CurateWarehouseSections(ctx)
		if err != nil {
			return err
		}
		run.RowCounts["curated.d_warehouse_section"] = n

		split, err := repo.CuratePicks(ctx)
		if err != nil {
			return err
		}
		run.RowCounts["curated.f_order_picks"] = split.OrderPicks
		run.RowCounts["curated.f_pick_errors"] = split.PickErrors
		run.RowCounts["curated.f_returns"] = split.Returns
		return nil
	})
	if err != nil {
		return fmt.Errorf("curate: %w", err)
	}

	u.log.Info().
		Int64("order_picks", run.RowCounts["curated.f_order_picks"]).
		Int64("pick_errors", run.RowCounts["curated.f_pick_errors"]).
		Int64("returns", run.RowCounts["curated.f_returns"]).
		Msg("curated star schema rebuilt")
	return nil
}
