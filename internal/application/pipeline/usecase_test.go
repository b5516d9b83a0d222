package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/calendar"
	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeSource struct {
	picks     []entity.Pick
	anomalies entity.StagingAnomalies
	err       error
}

func (f *fakeSource) ReadPicks(context.Context) ([]entity.Pick, entity.StagingAnomalies, error) {
	return f.picks, f.anomalies, f.err
}

func (f *fakeSource) ReadProducts(context.Context) ([]entity.Product, error) {
	return []entity.Product{{ID: "P1", Description: "Sägeblatt", Group: "tools"}}, nil
}

func (f *fakeSource) ReadWarehouseSections(context.Context) ([]entity.WarehouseSection, error) {
	return []entity.WarehouseSection{{Abbreviation: "KA", Description: "Kleinteile A"}}, nil
}

type fakeStaging struct {
	picks, products, sections int64
}

func (f *fakeStaging) ReplacePicks(_ context.Context, picks []entity.Pick) (int64, error) {
	f.picks = int64(len(picks))
	return f.picks, nil
}

func (f *fakeStaging) ReplaceProducts(_ context.Context, products []entity.Product) (int64, error) {
	f.products = int64(len(products))
	return f.products, nil
}

func (f *fakeStaging) ReplaceWarehouseSections(_ context.Context, sections []entity.WarehouseSection) (int64, error) {
	f.sections = int64(len(sections))
	return f.sections, nil
}

type fakeCuration struct {
	split repository.PickSplit
}

func (f *fakeCuration) RunCuration(_ context.Context, fn func(repo repository.CurationRepository) error) error {
	return fn(f)
}

func (f *fakeCuration) ReplaceDateDim(_ context.Context, days []calendar.Day) (int64, error) {
	return int64(len(days)), nil
}

func (f *fakeCuration) CurateProducts(context.Context) (int64, error) { return 1, nil }

func (f *fakeCuration) CurateWarehouseSections(context.Context) (int64, error) { return 1, nil }

func (f *fakeCuration) CuratePicks(context.Context) (repository.PickSplit, error) {
	return f.split, nil
}

type fakeExporter struct {
	mu    sync.Mutex
	files map[string]int
}

func (f *fakeExporter) WriteMart(_, file string, _ []string, records [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.files == nil {
		f.files = map[string]int{}
	}
	f.files[file] = len(records)
	return nil
}

type fakeRuns struct {
	mu       sync.Mutex
	created  []entity.PipelineRun
	finished []entity.PipelineRun
}

func (f *fakeRuns) Create(_ context.Context, run *entity.PipelineRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *run)
	return nil
}

func (f *fakeRuns) Finish(_ context.Context, run *entity.PipelineRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, *run)
	return nil
}

func (f *fakeRuns) GetByID(context.Context, string) (*entity.PipelineRun, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeRuns) ListRecent(context.Context, int) ([]entity.PipelineRun, error) {
	return nil, nil
}

// fakeAnalytics returns a single plausible row per mart.
type fakeAnalytics struct {
	block chan struct{} // when set, TotalPickVolume waits until closed
}

func (f *fakeAnalytics) TotalPickVolume(ctx context.Context, _ repository.RangeQuery) ([]repository.DailyVolumeRow, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []repository.DailyVolumeRow{{Date: day(2018, 3, 26), Volume: 42, Week: "2018_13"}}, nil
}

func (f *fakeAnalytics) TotalOrdersProcessed(context.Context, repository.RangeQuery) ([]repository.DailyOrdersRow, error) {
	return []repository.DailyOrdersRow{{Date: day(2018, 3, 26), Orders: 7, Week: "2018_13"}}, nil
}

func (f *fakeAnalytics) PickErrorRates(context.Context, repository.RangeQuery) ([]repository.ErrorRateRow, error) {
	return []repository.ErrorRateRow{{Date: day(2018, 3, 26), Week: "2018_13", TotalErrors: 1, TotalPicks: 41}}, nil
}

func (f *fakeAnalytics) TopProductsWeekly(context.Context, int, *repository.DrillDown) ([]repository.TopProductRow, error) {
	return []repository.TopProductRow{{Week: "2018_13", ProductID: "P1", TotalPicks: 12}}, nil
}

func (f *fakeAnalytics) AvgProductsPerOrder(context.Context) ([]repository.AvgProductsRow, error) {
	return []repository.AvgProductsRow{{Week: "2018_13", AvgProducts: decimal.RequireFromString("3.5")}}, nil
}

func (f *fakeAnalytics) OrderCountByType(context.Context) ([]repository.OrderTypeRow, error) {
	return []repository.OrderTypeRow{{Week: "2018_13", Customer: 5, Store: 2, Total: 7}}, nil
}

func (f *fakeAnalytics) WarehouseUtilization(context.Context) ([]repository.UtilizationRow, error) {
	return []repository.UtilizationRow{{Week: "2018_13", Section: "KA"}}, nil
}

func (f *fakeAnalytics) PickThroughput(context.Context, repository.RangeQuery) ([]repository.HourlyThroughputRow, error) {
	return []repository.HourlyThroughputRow{{Date: day(2018, 3, 26), Hour: 8, Volume: 42}}, nil
}

func (f *fakeAnalytics) WeeklyThroughput(context.Context, repository.DrillDown) ([]repository.WeeklyThroughputRow, error) {
	return []repository.WeeklyThroughputRow{{Week: "2018_13", Dimension: "KA"}}, nil
}

func (f *fakeAnalytics) BinnedOrderVolume(context.Context, repository.RangeQuery) ([]repository.BinnedVolumeRow, error) {
	return []repository.BinnedVolumeRow{{Date: day(2018, 3, 26), Bin: "mini", Orders: 3}}, nil
}

func (f *fakeAnalytics) WeeklyZScores(context.Context, repository.AggPeriod) ([]repository.ZScoreRow, error) {
	return []repository.ZScoreRow{{OrderID: "100_2018", Period: "2018_13", Volume: 42}}, nil
}

func (f *fakeAnalytics) OrderMix(context.Context) ([]repository.OrderMixRow, error) {
	return []repository.OrderMixRow{{OrderDate: day(2018, 3, 26), OrderID: "100_2018", Section: "KA"}}, nil
}

func (f *fakeAnalytics) Totals(context.Context) (repository.Totals, error) {
	return repository.Totals{}, nil
}

func (f *fakeAnalytics) LatestWeek(context.Context) (string, error) { return "2018_13", nil }

func (f *fakeAnalytics) WeekSummary(_ context.Context, week string) (repository.WeekSummary, error) {
	return repository.WeekSummary{Week: week}, nil
}

func (f *fakeAnalytics) TopProductsForWeek(context.Context, string, int) ([]repository.TopProductRow, error) {
	return nil, nil
}

func (f *fakeAnalytics) UtilizationForWeek(context.Context, string) ([]repository.UtilizationRow, error) {
	return nil, nil
}

// ── Wiring ────────────────────────────────────────────────────────────────────

func newTestUsecase(source *fakeSource, analytics *fakeAnalytics, exporter *fakeExporter, runs *fakeRuns) *Usecase {
	return NewUsecase(
		source,
		&fakeStaging{},
		&fakeCuration{split: repository.PickSplit{OrderPicks: 3, PickErrors: 1, Returns: 1}},
		analytics,
		exporter,
		runs,
		Config{
			DateDimStart: day(2018, 3, 26),
			DateDimEnd:   day(2018, 3, 28),
			TopNProducts: 10,
		},
		zerolog.Nop(),
	)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func somePicks() []entity.Pick {
	ts := time.Date(2018, 3, 26, 8, 58, 5, 0, time.UTC)
	return []entity.Pick{
		{ProductID: "P1", WarehouseSection: "KA", Origin: entity.OriginStore, OrderNumber: "100", PickVolume: 12, PickTimestamp: ts, PickDate: day(2018, 3, 26)},
		{ProductID: "P2", WarehouseSection: "KA", Origin: entity.OriginCustomer, OrderNumber: "100", PickVolume: 30, PickTimestamp: ts, PickDate: day(2018, 3, 26)},
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestExecuteFullRun(t *testing.T) {
	runs := &fakeRuns{}
	exporter := &fakeExporter{}
	uc := newTestUsecase(
		&fakeSource{picks: somePicks(), anomalies: entity.StagingAnomalies{ZeroVolume: 1, NegativeVolume: 2}},
		&fakeAnalytics{},
		exporter,
		runs,
	)

	run, err := uc.Execute(context.Background(), entity.PhaseFull)
	require.NoError(t, err)

	assert.Equal(t, entity.RunStatusSucceeded, run.Status)
	require.NotNil(t, run.FinishedAt)
	assert.Empty(t, run.Error)

	assert.Equal(t, int64(2), run.RowCounts["staging.pick_data"])
	assert.Equal(t, int64(3), run.RowCounts["curated.d_date"]) // inclusive 3-day range
	assert.Equal(t, int64(3), run.RowCounts["curated.f_order_picks"])
	assert.Equal(t, int64(1), run.RowCounts["curated.f_pick_errors"])
	assert.Equal(t, int64(1), run.RowCounts["curated.f_returns"])
	assert.Equal(t, int64(1), run.Anomalies["zero_volume"])
	assert.Equal(t, int64(2), run.Anomalies["negative_volume"])

	// 11 base artifacts plus 5 drill-down variants per dimension.
	assert.Len(t, exporter.files, 11+3*5)
	assert.Equal(t, 1, exporter.files["total_pick_volume.csv"])
	assert.Contains(t, exporter.files, "top_products_origin.csv")
	assert.Contains(t, exporter.files, "pick_throughput_warehouse_section.csv")

	require.Len(t, runs.created, 1)
	require.Len(t, runs.finished, 1)
	assert.Equal(t, entity.RunStatusSucceeded, runs.finished[0].Status)
}

func TestExecuteStageFailureRecordsError(t *testing.T) {
	runs := &fakeRuns{}
	uc := newTestUsecase(
		&fakeSource{err: errors.New("pick_data.csv: row 3: parse origin")},
		&fakeAnalytics{},
		&fakeExporter{},
		runs,
	)

	run, err := uc.Execute(context.Background(), entity.PhaseStage)
	require.Error(t, err)

	assert.Equal(t, entity.RunStatusFailed, run.Status)
	assert.Contains(t, run.Error, "pick_data.csv: row 3")
	require.Len(t, runs.finished, 1)
	assert.Equal(t, entity.RunStatusFailed, runs.finished[0].Status)
}

func TestExecuteUnknownPhase(t *testing.T) {
	uc := newTestUsecase(&fakeSource{}, &fakeAnalytics{}, &fakeExporter{}, &fakeRuns{})

	run, err := uc.Execute(context.Background(), "vacuum")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.RunStatusFailed, run.Status)
}

func TestStartAsyncSingleFlight(t *testing.T) {
	block := make(chan struct{})
	runs := &fakeRuns{}
	uc := newTestUsecase(
		&fakeSource{picks: somePicks()},
		&fakeAnalytics{block: block},
		&fakeExporter{},
		runs,
	)

	started, err := uc.StartAsync(entity.PhaseMarts)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusRunning, started.Status)

	_, err = uc.StartAsync(entity.PhaseMarts)
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	_, err = uc.Execute(context.Background(), entity.PhaseStage)
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	close(block)
	require.Eventually(t, func() bool {
		runs.mu.Lock()
		defer runs.mu.Unlock()
		return len(runs.finished) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// lock released, a new run can start
	_, err = uc.Execute(context.Background(), entity.PhaseStage)
	require.NoError(t, err)
}
