package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Appy-Anand/obeta-project/internal/application/analytics"
	"github.com/Appy-Anand/obeta-project/internal/application/auth"
	"github.com/Appy-Anand/obeta-project/internal/application/pipeline"
	"github.com/Appy-Anand/obeta-project/internal/application/report"
	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/calendar"
	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
	apphttp "github.com/Appy-Anand/obeta-project/internal/interfaces/http"
)

// ── Shared fakes ──────────────────────────────────────────────────────────────

func testDay() time.Time { return time.Date(2018, 3, 26, 0, 0, 0, 0, time.UTC) }

type stubAnalytics struct{}

func (stubAnalytics) TotalPickVolume(context.Context, repository.RangeQuery) ([]repository.DailyVolumeRow, error) {
	return []repository.DailyVolumeRow{{Date: testDay(), Volume: 42, Week: "2018_13", Year: 2018}}, nil
}

func (stubAnalytics) TotalOrdersProcessed(context.Context, repository.RangeQuery) ([]repository.DailyOrdersRow, error) {
	return []repository.DailyOrdersRow{{Date: testDay(), Orders: 7, Week: "2018_13"}}, nil
}

func (stubAnalytics) PickErrorRates(context.Context, repository.RangeQuery) ([]repository.ErrorRateRow, error) {
	return []repository.ErrorRateRow{{Date: testDay(), Week: "2018_13", TotalErrors: 1, TotalPicks: 41}}, nil
}

func (stubAnalytics) TopProductsWeekly(context.Context, int, *repository.DrillDown) ([]repository.TopProductRow, error) {
	return []repository.TopProductRow{{Week: "2018_13", ProductID: "P1", TotalPicks: 12}}, nil
}

func (stubAnalytics) AvgProductsPerOrder(context.Context) ([]repository.AvgProductsRow, error) {
	return []repository.AvgProductsRow{{Week: "2018_13", AvgProducts: decimal.RequireFromString("3.5")}}, nil
}

func (stubAnalytics) OrderCountByType(context.Context) ([]repository.OrderTypeRow, error) {
	return []repository.OrderTypeRow{{Week: "2018_13", Customer: 5, Store: 2, Total: 7}}, nil
}

func (stubAnalytics) WarehouseUtilization(context.Context) ([]repository.UtilizationRow, error) {
	return []repository.UtilizationRow{{Week: "2018_13", Section: "KA", UtilizationPct: decimal.RequireFromString("61.2")}}, nil
}

func (stubAnalytics) PickThroughput(context.Context, repository.RangeQuery) ([]repository.HourlyThroughputRow, error) {
	return []repository.HourlyThroughputRow{{Date: testDay(), Hour: 8, Volume: 42}}, nil
}

func (stubAnalytics) WeeklyThroughput(context.Context, repository.DrillDown) ([]repository.WeeklyThroughputRow, error) {
	return []repository.WeeklyThroughputRow{{Week: "2018_13", Dimension: "KA", AvgVolume: decimal.RequireFromString("17.25")}}, nil
}

func (stubAnalytics) BinnedOrderVolume(context.Context, repository.RangeQuery) ([]repository.BinnedVolumeRow, error) {
	return []repository.BinnedVolumeRow{{Date: testDay(), Bin: "mini", Orders: 3}}, nil
}

func (stubAnalytics) WeeklyZScores(context.Context, repository.AggPeriod) ([]repository.ZScoreRow, error) {
	return []repository.ZScoreRow{{OrderID: "100_2018", Period: "2018_13", Volume: 42}}, nil
}

func (stubAnalytics) OrderMix(context.Context) ([]repository.OrderMixRow, error) {
	return []repository.OrderMixRow{{OrderDate: testDay(), OrderID: "100_2018", Section: "KA"}}, nil
}

func (stubAnalytics) Totals(context.Context) (repository.Totals, error) {
	return repository.Totals{PickVolume: 42, Orders: 7, Picks: 40, PickErrors: 1, Returns: 1}, nil
}

func (stubAnalytics) LatestWeek(context.Context) (string, error) { return "2018_13", nil }

func (stubAnalytics) WeekSummary(_ context.Context, week string) (repository.WeekSummary, error) {
	return repository.WeekSummary{Week: week, PickVolume: 42, Orders: 7}, nil
}

func (stubAnalytics) TopProductsForWeek(_ context.Context, week string, _ int) ([]repository.TopProductRow, error) {
	return []repository.TopProductRow{{Week: week, ProductID: "P1", TotalPicks: 12}}, nil
}

func (stubAnalytics) UtilizationForWeek(_ context.Context, week string) ([]repository.UtilizationRow, error) {
	return []repository.UtilizationRow{{Week: week, Section: "KA"}}, nil
}

type stubSource struct{}

func (stubSource) ReadPicks(context.Context) ([]entity.Pick, entity.StagingAnomalies, error) {
	return []entity.Pick{{ProductID: "P1", OrderNumber: "100", PickVolume: 12, PickTimestamp: testDay(), PickDate: testDay()}}, entity.StagingAnomalies{}, nil
}

func (stubSource) ReadProducts(context.Context) ([]entity.Product, error) { return nil, nil }

func (stubSource) ReadWarehouseSections(context.Context) ([]entity.WarehouseSection, error) {
	return nil, nil
}

type stubStaging struct{}

func (stubStaging) ReplacePicks(_ context.Context, p []entity.Pick) (int64, error) {
	return int64(len(p)), nil
}

func (stubStaging) ReplaceProducts(_ context.Context, p []entity.Product) (int64, error) {
	return int64(len(p)), nil
}

func (stubStaging) ReplaceWarehouseSections(_ context.Context, s []entity.WarehouseSection) (int64, error) {
	return int64(len(s)), nil
}

type stubCuration struct{}

func (stubCuration) RunCuration(_ context.Context, fn func(repo repository.CurationRepository) error) error {
	return fn(stubCuration{})
}

func (stubCuration) ReplaceDateDim(_ context.Context, days []calendar.Day) (int64, error) {
	return int64(len(days)), nil
}

func (stubCuration) CurateProducts(context.Context) (int64, error)          { return 0, nil }
func (stubCuration) CurateWarehouseSections(context.Context) (int64, error) { return 0, nil }

func (stubCuration) CuratePicks(context.Context) (repository.PickSplit, error) {
	return repository.PickSplit{OrderPicks: 1}, nil
}

type stubExporter struct{}

func (stubExporter) WriteMart(string, string, []string, [][]string) error { return nil }

// memRuns stores runs in memory so GetRun and ListRuns behave like the real
// repository.
type memRuns struct {
	mu   sync.Mutex
	runs map[string]entity.PipelineRun
}

func newMemRuns() *memRuns { return &memRuns{runs: map[string]entity.PipelineRun{}} }

func (m *memRuns) Create(_ context.Context, run *entity.PipelineRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = *run
	return nil
}

func (m *memRuns) Finish(_ context.Context, run *entity.PipelineRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = *run
	return nil
}

func (m *memRuns) GetByID(_ context.Context, id string) (*entity.PipelineRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

func (m *memRuns) ListRecent(_ context.Context, limit int) ([]entity.PipelineRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.PipelineRun, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubPDF struct{}

func (stubPDF) GenerateWeeklyReport(context.Context, *report.WeeklyReport) ([]byte, error) {
	return []byte("%PDF-1.7 stub"), nil
}

// ── App wiring ────────────────────────────────────────────────────────────────

func testPasswordHash(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("test-operator-password"), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestServer(t *testing.T) (*fiber.App, *memRuns) {
	t.Helper()

	runs := newMemRuns()
	repo := stubAnalytics{}

	pipelineUC := pipeline.NewUsecase(
		stubSource{}, stubStaging{}, stubCuration{}, repo, stubExporter{}, runs,
		pipeline.Config{
			DateDimStart: testDay(),
			DateDimEnd:   testDay().AddDate(0, 0, 2),
			TopNProducts: 10,
		},
		zerolog.Nop(),
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewUsecase("operator", testPasswordHash(t), testJWTSecret, testIssuer, testExpMin),
		MartsUC:     analytics.NewMartsUsecase(repo, 10),
		DashboardUC: analytics.NewDashboardUsecase(repo, 10),
		PipelineUC:  pipelineUC,
		ReportUC:    report.NewUsecase(repo, stubPDF{}, 10),
		JWTSecret:   testJWTSecret,
	})
	return app, runs
}

func authedRequest(t *testing.T, app *fiber.App, method, target string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", tokenForRole(t, "operator"))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
