package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
	"github.com/Appy-Anand/obeta-project/internal/metrics"
)

// exportConcurrency caps parallel mart queries against the pool.
const exportConcurrency = 4

// martJob is one CSV artifact: a mart, possibly a drill-down variant of it.
type martJob struct {
	mart  string
	file  string
	build func(ctx context.Context) (header []string, records [][]string, err error)
}

// exportMarts materializes every mart artifact. Jobs run concurrently; any
// failure cancels the remaining queries.
func (u *Usecase) exportMarts(ctx context.Context, run *entity.PipelineRun) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)

	var mu sync.Mutex
	for _, job := range u.martJobs() {
		g.Go(func() error {
			header, records, err := job.build(ctx)
			if err != nil {
				metrics.MartExport(job.mart, "failure")
				return fmt.Errorf("mart %s: %w", job.file, err)
			}
			if err := u.exporter.WriteMart(job.mart, job.file, header, records); err != nil {
				metrics.MartExport(job.mart, "failure")
				return fmt.Errorf("mart %s: write: %w", job.file, err)
			}
			metrics.MartExport(job.mart, "success")

			mu.Lock()
			run.RowCounts["mart:"+strings.TrimSuffix(job.file, ".csv")] = int64(len(records))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	u.log.Info().Int("artifacts", len(u.martJobs())).Msg("marts exported")
	return nil
}

// martJobs enumerates every artifact of an export: the eleven marts plus one
// drill-down variant per dimension where the mart supports it.
func (u *Usecase) martJobs() []martJob {
	jobs := []martJob{
		{mart: "total_pick_volume", file: "total_pick_volume.csv", build: u.buildPickVolume(nil)},
		{mart: "total_orders_processed", file: "total_orders_processed.csv", build: u.buildOrdersProcessed(nil)},
		{mart: "pick_errors", file: "pick_errors.csv", build: u.buildPickErrors(nil)},
		{mart: "top_products", file: "top_products.csv", build: u.buildTopProducts(nil)},
		{mart: "avg_products_per_order", file: "avg_products_per_order.csv", build: u.buildAvgProducts},
		{mart: "order_count_by_type", file: "order_count_by_type.csv", build: u.buildOrderTypes},
		{mart: "warehouse_utilization", file: "warehouse_utilization.csv", build: u.buildUtilization},
		{mart: "pick_throughput", file: "pick_throughput.csv", build: u.buildHourlyThroughput},
		{mart: "binned_order_volume", file: "binned_order_volume.csv", build: u.buildBinnedVolume},
		{mart: "zscore_distribution", file: "zscore_distribution.csv", build: u.buildZScores},
		{mart: "order_mix", file: "order_mix.csv", build: u.buildOrderMix},
	}
	for _, dim := range repository.DrillDowns {
		suffix := "_" + string(dim) + ".csv"
		jobs = append(jobs,
			martJob{mart: "total_pick_volume", file: "total_pick_volume" + suffix, build: u.buildPickVolume(&dim)},
			martJob{mart: "total_orders_processed", file: "total_orders_processed" + suffix, build: u.buildOrdersProcessed(&dim)},
			martJob{mart: "pick_errors", file: "pick_errors" + suffix, build: u.buildPickErrors(&dim)},
			martJob{mart: "top_products", file: "top_products" + suffix, build: u.buildTopProducts(&dim)},
			martJob{mart: "pick_throughput", file: "pick_throughput" + suffix, build: u.buildWeeklyThroughput(dim)},
		)
	}
	return jobs
}

// ── Record builders ───────────────────────────────────────────────────────────

func (u *Usecase) buildPickVolume(dim *repository.DrillDown) func(context.Context) ([]string, [][]string, error) {
	return func(ctx context.Context) ([]string, [][]string, error) {
		rows, err := u.analytics.TotalPickVolume(ctx, repository.RangeQuery{DrillDown: dim})
		if err != nil {
			return nil, nil, err
		}
		header := []string{"date", "pick_volume", "week", "month", "quarter", "year_half", "year"}
		if dim != nil {
			header = dimHeader(header, 1, *dim)
		}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			rec := []string{fmtDate(r.Date), itoa(r.Volume), r.Week, r.Month, r.Quarter, r.YearHalf, strconv.Itoa(r.Year)}
			if dim != nil {
				rec = insertAt(rec, 1, deref(r.Dimension))
			}
			records = append(records, rec)
		}
		return header, records, nil
	}
}

func (u *Usecase) buildOrdersProcessed(dim *repository.DrillDown) func(context.Context) ([]string, [][]string, error) {
	return func(ctx context.Context) ([]string, [][]string, error) {
		rows, err := u.analytics.TotalOrdersProcessed(ctx, repository.RangeQuery{DrillDown: dim})
		if err != nil {
			return nil, nil, err
		}
		header := []string{"date", "order_volume", "week", "month", "quarter", "year_half", "year"}
		if dim != nil {
			header = dimHeader(header, 1, *dim)
		}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			rec := []string{fmtDate(r.Date), itoa(r.Orders), r.Week, r.Month, r.Quarter, r.YearHalf, strconv.Itoa(r.Year)}
			if dim != nil {
				rec = insertAt(rec, 1, deref(r.Dimension))
			}
			records = append(records, rec)
		}
		return header, records, nil
	}
}

func (u *Usecase) buildPickErrors(dim *repository.DrillDown) func(context.Context) ([]string, [][]string, error) {
	return func(ctx context.Context) ([]string, [][]string, error) {
		rows, err := u.analytics.PickErrorRates(ctx, repository.RangeQuery{DrillDown: dim})
		if err != nil {
			return nil, nil, err
		}
		header := []string{"date", "week", "month", "total_errors", "total_picks"}
		if dim != nil {
			header = dimHeader(header, 3, *dim)
		}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			rec := []string{fmtDate(r.Date), r.Week, r.Month, itoa(r.TotalErrors), itoa(r.TotalPicks)}
			if dim != nil {
				rec = insertAt(rec, 3, deref(r.Dimension))
			}
			records = append(records, rec)
		}
		return header, records, nil
	}
}

func (u *Usecase) buildTopProducts(dim *repository.DrillDown) func(context.Context) ([]string, [][]string, error) {
	return func(ctx context.Context) ([]string, [][]string, error) {
		rows, err := u.analytics.TopProductsWeekly(ctx, u.cfg.TopNProducts, dim)
		if err != nil {
			return nil, nil, err
		}
		header := []string{"week", "product_id", "total_picks"}
		if dim != nil {
			header = dimHeader(header, 1, *dim)
		}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			rec := []string{r.Week, r.ProductID, itoa(r.TotalPicks)}
			if dim != nil {
				rec = insertAt(rec, 1, deref(r.Dimension))
			}
			records = append(records, rec)
		}
		return header, records, nil
	}
}

func (u *Usecase) buildAvgProducts(ctx context.Context) ([]string, [][]string, error) {
	rows, err := u.analytics.AvgProductsPerOrder(ctx)
	if err != nil {
		return nil, nil, err
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Week, r.AvgProducts.String()})
	}
	return []string{"week", "avg_products"}, records, nil
}

func (u *Usecase) buildOrderTypes(ctx context.Context) ([]string, [][]string, error) {
	rows, err := u.analytics.OrderCountByType(ctx)
	if err != nil {
		return nil, nil, err
	}
	header := []string{
		"week", "customer_orders", "store_orders", "total_orders",
		"pct_customer", "pct_store", "ratio_store_to_customer", "ratio_customer_to_store",
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Week, itoa(r.Customer), itoa(r.Store), itoa(r.Total),
			r.CustomerPct.String(), r.StorePct.String(), r.RatioStore.String(), r.RatioCust.String(),
		})
	}
	return header, records, nil
}

func (u *Usecase) buildUtilization(ctx context.Context) ([]string, [][]string, error) {
	rows, err := u.analytics.WarehouseUtilization(ctx)
	if err != nil {
		return nil, nil, err
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Week, r.Section, r.UtilizationPct.String()})
	}
	return []string{"week", "warehouse_section", "utilization_pct"}, records, nil
}

func (u *Usecase) buildHourlyThroughput(ctx context.Context) ([]string, [][]string, error) {
	rows, err := u.analytics.PickThroughput(ctx, repository.RangeQuery{})
	if err != nil {
		return nil, nil, err
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{fmtDate(r.Date), strconv.Itoa(r.Hour), itoa(r.Volume)})
	}
	return []string{"pick_date", "pick_hour", "pick_volume"}, records, nil
}

func (u *Usecase) buildWeeklyThroughput(dim repository.DrillDown) func(context.Context) ([]string, [][]string, error) {
	return func(ctx context.Context) ([]string, [][]string, error) {
		rows, err := u.analytics.WeeklyThroughput(ctx, dim)
		if err != nil {
			return nil, nil, err
		}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			records = append(records, []string{r.Week, r.Dimension, r.AvgVolume.String()})
		}
		return []string{"week", string(dim), "avg_pick_volume"}, records, nil
	}
}

func (u *Usecase) buildBinnedVolume(ctx context.Context) ([]string, [][]string, error) {
	rows, err := u.analytics.BinnedOrderVolume(ctx, repository.RangeQuery{})
	if err != nil {
		return nil, nil, err
	}
	header := []string{"date", "bin", "order_volume", "week", "month", "quarter", "year_half"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			fmtDate(r.Date), r.Bin, itoa(r.Orders), r.Week, r.Month, r.Quarter, r.YearHalf,
		})
	}
	return header, records, nil
}

func (u *Usecase) buildZScores(ctx context.Context) ([]string, [][]string, error) {
	rows, err := u.analytics.WeeklyZScores(ctx, repository.PeriodWeek)
	if err != nil {
		return nil, nil, err
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.OrderID, r.Period, itoa(r.Volume), r.ZScore.String(),
			strconv.FormatBool(r.Outlier()),
		})
	}
	return []string{"sk_order_id", "week", "pick_volume", "z_score", "outlier"}, records, nil
}

func (u *Usecase) buildOrderMix(ctx context.Context) ([]string, [][]string, error) {
	rows, err := u.analytics.OrderMix(ctx)
	if err != nil {
		return nil, nil, err
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			fmtDate(r.OrderDate), r.OrderID, r.Section, r.SectionPct.String(),
		})
	}
	return []string{"order_date", "sk_order_id", "warehouse_section", "section_pct"}, records, nil
}

// ── Formatting helpers ────────────────────────────────────────────────────────

func fmtDate(t time.Time) string { return t.Format("2006-01-02") }

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dimHeader(header []string, at int, dim repository.DrillDown) []string {
	return insertAt(header, at, string(dim))
}

func insertAt(rec []string, at int, v string) []string {
	out := make([]string, 0, len(rec)+1)
	out = append(out, rec[:at]...)
	out = append(out, v)
	out = append(out, rec[at:]...)
	return out
}
