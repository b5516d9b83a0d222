package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo read-only KPI queries over the curated star schema.
//
// Drill-down dimensions are a closed set mapped to the SQL fragments below;
// caller input selects a fragment but is never interpolated into query text.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository builds the analytics adapter.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// ── Drill-down fragments ──────────────────────────────────────────────────────

// dimExpr returns the SELECT expression for a dimension given the fact alias.
// product_group lives on d_product; origin and warehouse_section are fact
// columns. Origin is normalized to TEXT so every dimension scans the same way.
func dimExpr(d repository.DrillDown, fact string) string {
	switch d {
	case repository.DrillDownProductGroup:
		return "dp.product_group"
	case repository.DrillDownOrigin:
		return fact + ".origin::TEXT"
	default:
		return fact + "." + string(repository.DrillDownWarehouseSection)
	}
}

// dimJoin returns the extra join needed by a dimension, or "".
func dimJoin(d repository.DrillDown, fact string) string {
	if d == repository.DrillDownProductGroup {
		return "LEFT JOIN curated.d_product dp ON dp.product_id = " + fact + ".product_id"
	}
	return ""
}

// ── Daily marts ───────────────────────────────────────────────────────────────

// TotalPickVolume sums pick volume per day. Without a drill-down only days
// with picks appear; TotalOrdersProcessed is the zero-filled counterpart.
func (r *AnalyticsRepo) TotalPickVolume(ctx context.Context, q repository.RangeQuery) ([]repository.DailyVolumeRow, error) {
	const base = `
	WITH agg AS (
		SELECT pick_date, SUM(pick_volume) AS pick_volume
		FROM curated.f_order_picks
		GROUP BY pick_date
	)
	SELECT d.date, agg.pick_volume, d.week, d.month, d.quarter, d.year_half, d.year
	FROM agg
	JOIN curated.d_date d ON d.date = agg.pick_date
	WHERE ($1::date IS NULL OR d.date >= $1)
	  AND ($2::date IS NULL OR d.date <= $2)
	ORDER BY d.date`

	if q.DrillDown == nil {
		rows, err := r.pool.Query(ctx, base, q.From, q.To)
		if err != nil {
			return nil, fmt.Errorf("analytics.TotalPickVolume: %w", err)
		}
		defer rows.Close()

		var results []repository.DailyVolumeRow
		for rows.Next() {
			var row repository.DailyVolumeRow
			if err := rows.Scan(&row.Date, &row.Volume, &row.Week, &row.Month, &row.Quarter, &row.YearHalf, &row.Year); err != nil {
				return nil, fmt.Errorf("analytics.TotalPickVolume scan: %w", err)
			}
			results = append(results, row)
		}
		return results, rows.Err()
	}

	query := fmt.Sprintf(`
	WITH agg AS (
		SELECT f.pick_date, %s AS dim, SUM(f.pick_volume) AS pick_volume
		FROM curated.f_order_picks f
		%s
		GROUP BY 1, 2
	)
	SELECT d.date, agg.dim, agg.pick_volume, d.week, d.month, d.quarter, d.year_half, d.year
	FROM agg
	JOIN curated.d_date d ON d.date = agg.pick_date
	WHERE ($1::date IS NULL OR d.date >= $1)
	  AND ($2::date IS NULL OR d.date <= $2)
	ORDER BY d.date, agg.dim`,
		dimExpr(*q.DrillDown, "f"), dimJoin(*q.DrillDown, "f"))

	rows, err := r.pool.Query(ctx, query, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("analytics.TotalPickVolume[%s]: %w", *q.DrillDown, err)
	}
	defer rows.Close()

	var results []repository.DailyVolumeRow
	for rows.Next() {
		var row repository.DailyVolumeRow
		if err := rows.Scan(&row.Date, &row.Dimension, &row.Volume, &row.Week, &row.Month, &row.Quarter, &row.YearHalf, &row.Year); err != nil {
			return nil, fmt.Errorf("analytics.TotalPickVolume[%s] scan: %w", *q.DrillDown, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TotalOrdersProcessed counts distinct orders per day, zero-filled over the
// whole date dimension: empty days appear with zero orders.
func (r *AnalyticsRepo) TotalOrdersProcessed(ctx context.Context, q repository.RangeQuery) ([]repository.DailyOrdersRow, error) {
	const base = `
	WITH agg AS (
		SELECT pick_date, COUNT(DISTINCT sk_order_id) AS order_volume
		FROM curated.f_order_picks
		GROUP BY pick_date
	)
	SELECT d.date, COALESCE(agg.order_volume, 0), d.week, d.month, d.quarter, d.year_half, d.year
	FROM curated.d_date d
	LEFT JOIN agg ON d.date = agg.pick_date
	WHERE ($1::date IS NULL OR d.date >= $1)
	  AND ($2::date IS NULL OR d.date <= $2)
	ORDER BY d.date`

	if q.DrillDown == nil {
		rows, err := r.pool.Query(ctx, base, q.From, q.To)
		if err != nil {
			return nil, fmt.Errorf("analytics.TotalOrdersProcessed: %w", err)
		}
		defer rows.Close()

		var results []repository.DailyOrdersRow
		for rows.Next() {
			var row repository.DailyOrdersRow
			if err := rows.Scan(&row.Date, &row.Orders, &row.Week, &row.Month, &row.Quarter, &row.YearHalf, &row.Year); err != nil {
				return nil, fmt.Errorf("analytics.TotalOrdersProcessed scan: %w", err)
			}
			results = append(results, row)
		}
		return results, rows.Err()
	}

	query := fmt.Sprintf(`
	WITH agg AS (
		SELECT f.pick_date, %s AS dim, COUNT(DISTINCT f.sk_order_id) AS order_volume
		FROM curated.f_order_picks f
		%s
		GROUP BY 1, 2
	)
	SELECT d.date, agg.dim, COALESCE(agg.order_volume, 0), d.week, d.month, d.quarter, d.year_half, d.year
	FROM curated.d_date d
	LEFT JOIN agg ON d.date = agg.pick_date
	WHERE ($1::date IS NULL OR d.date >= $1)
	  AND ($2::date IS NULL OR d.date <= $2)
	ORDER BY d.date, agg.dim`,
		dimExpr(*q.DrillDown, "f"), dimJoin(*q.DrillDown, "f"))

	rows, err := r.pool.Query(ctx, query, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("analytics.TotalOrdersProcessed[%s]: %w", *q.DrillDown, err)
	}
	defer rows.Close()

	var results []repository.DailyOrdersRow
	for rows.Next() {
		var row repository.DailyOrdersRow
		if err := rows.Scan(&row.Date, &row.Dimension, &row.Orders, &row.Week, &row.Month, &row.Quarter, &row.YearHalf, &row.Year); err != nil {
			return nil, fmt.Errorf("analytics.TotalOrdersProcessed[%s] scan: %w", *q.DrillDown, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// PickErrorRates reports daily error counts against total picks.
func (r *AnalyticsRepo) PickErrorRates(ctx context.Context, q repository.RangeQuery) ([]repository.ErrorRateRow, error) {
	if q.DrillDown == nil {
		const query = `
		WITH errors AS (
			SELECT d.date, d.week, d.month, COUNT(*) AS total_errors
			FROM curated.f_pick_errors pe
			JOIN curated.d_date d ON pe.pick_date = d.date
			GROUP BY 1, 2, 3
		),
		picks AS (
			SELECT d.date, COUNT(*) AS total_picks
			FROM curated.f_order_picks op
			JOIN curated.d_date d ON op.pick_date = d.date
			GROUP BY 1
		)
		SELECT e.date, e.week, e.month, e.total_errors, COALESCE(p.total_picks, 0)
		FROM errors e
		LEFT JOIN picks p ON e.date = p.date
		WHERE ($1::date IS NULL OR e.date >= $1)
		  AND ($2::date IS NULL OR e.date <= $2)
		ORDER BY e.date`

		rows, err := r.pool.Query(ctx, query, q.From, q.To)
		if err != nil {
			return nil, fmt.Errorf("analytics.PickErrorRates: %w", err)
		}
		defer rows.Close()

		var results []repository.ErrorRateRow
		for rows.Next() {
			var row repository.ErrorRateRow
			if err := rows.Scan(&row.Date, &row.Week, &row.Month, &row.TotalErrors, &row.TotalPicks); err != nil {
				return nil, fmt.Errorf("analytics.PickErrorRates scan: %w", err)
			}
			results = append(results, row)
		}
		return results, rows.Err()
	}

	dim := *q.DrillDown
	query := fmt.Sprintf(`
	WITH errors AS (
		SELECT d.date, d.week, d.month, %s AS dim, COUNT(*) AS total_errors
		FROM curated.f_pick_errors pe
		JOIN curated.d_date d ON pe.pick_date = d.date
		%s
		GROUP BY 1, 2, 3, 4
	),
	picks AS (
		SELECT d.date, %s AS dim, COUNT(*) AS total_picks
		FROM curated.f_order_picks op
		JOIN curated.d_date d ON op.pick_date = d.date
		%s
		GROUP BY 1, 2
	)
	SELECT e.date, e.week, e.month, e.dim, e.total_errors, COALESCE(p.total_picks, 0)
	FROM errors e
	LEFT JOIN picks p ON e.date = p.date AND e.dim IS NOT DISTINCT FROM p.dim
	WHERE ($1::date IS NULL OR e.date >= $1)
	  AND ($2::date IS NULL OR e.date <= $2)
	ORDER BY e.date, e.dim`,
		dimExpr(dim, "pe"), dimJoin(dim, "pe"),
		dimExpr(dim, "op"), dimJoin(dim, "op"))

	rows, err := r.pool.Query(ctx, query, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("analytics.PickErrorRates[%s]: %w", dim, err)
	}
	defer rows.Close()

	var results []repository.ErrorRateRow
	for rows.Next() {
		var row repository.ErrorRateRow
		if err := rows.Scan(&row.Date, &row.Week, &row.Month, &row.Dimension, &row.TotalErrors, &row.TotalPicks); err != nil {
			return nil, fmt.Errorf("analytics.PickErrorRates[%s] scan: %w", dim, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ── Weekly marts ──────────────────────────────────────────────────────────────

// TopProductsWeekly ranks products by pick count within each week (and
// drill-down value) and keeps the top n.
func (r *AnalyticsRepo) TopProductsWeekly(ctx context.Context, n int, dim *repository.DrillDown) ([]repository.TopProductRow, error) {
	if dim == nil {
		const query = `
		WITH total_picks AS (
			SELECT d.week, f.product_id, COUNT(*) AS total_picks
			FROM curated.f_order_picks f
			JOIN curated.d_date d ON f.pick_date = d.date
			GROUP BY 1, 2
		),
		ranked AS (
			SELECT total_picks.*,
			       ROW_NUMBER() OVER (PARTITION BY week ORDER BY total_picks DESC) AS rank
			FROM total_picks
		)
		SELECT week, product_id, total_picks
		FROM ranked
		WHERE rank <= $1
		ORDER BY week, rank`

		rows, err := r.pool.Query(ctx, query, n)
		if err != nil {
			return nil, fmt.Errorf("analytics.TopProductsWeekly: %w", err)
		}
		defer rows.Close()
		return scanTopProducts(rows, false)
	}

	query := fmt.Sprintf(`
	WITH total_picks AS (
		SELECT d.week, f.product_id, %s AS dim, COUNT(*) AS total_picks
		FROM curated.f_order_picks f
		JOIN curated.d_date d ON f.pick_date = d.date
		%s
		GROUP BY 1, 2, 3
	),
	ranked AS (
		SELECT total_picks.*,
		       ROW_NUMBER() OVER (PARTITION BY week, dim ORDER BY total_picks DESC) AS rank
		FROM total_picks
	)
	SELECT week, product_id, dim, total_picks
	FROM ranked
	WHERE rank <= $1
	ORDER BY week, dim, rank`,
		dimExpr(*dim, "f"), dimJoin(*dim, "f"))

	rows, err := r.pool.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProductsWeekly[%s]: %w", *dim, err)
	}
	defer rows.Close()
	return scanTopProducts(rows, true)
}

func scanTopProducts(rows pgx.Rows, withDim bool) ([]repository.TopProductRow, error) {
	var results []repository.TopProductRow
	for rows.Next() {
		var row repository.TopProductRow
		var err error
		if withDim {
			err = rows.Scan(&row.Week, &row.ProductID, &row.Dimension, &row.TotalPicks)
		} else {
			err = rows.Scan(&row.Week, &row.ProductID, &row.TotalPicks)
		}
		if err != nil {
			return nil, fmt.Errorf("analytics.TopProductsWeekly scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// AvgProductsPerOrder averages distinct products per order by week; an order
// is dated by its first pick.
func (r *AnalyticsRepo) AvgProductsPerOrder(ctx context.Context) ([]repository.AvgProductsRow, error) {
	const query = `
	WITH order_products AS (
		SELECT sk_order_id,
		       MIN(pick_date) AS order_date,
		       COUNT(DISTINCT product_id) AS unique_products
		FROM curated.f_order_picks
		GROUP BY sk_order_id
	)
	SELECT d.week, AVG(op.unique_products)::numeric
	FROM order_products op
	JOIN curated.d_date d ON op.order_date = d.date
	GROUP BY d.week
	ORDER BY d.week`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.AvgProductsPerOrder: %w", err)
	}
	defer rows.Close()

	var results []repository.AvgProductsRow
	for rows.Next() {
		var row repository.AvgProductsRow
		if err := rows.Scan(&row.Week, &row.AvgProducts); err != nil {
			return nil, fmt.Errorf("analytics.AvgProductsPerOrder scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// OrderCountByType splits weekly order volume into store (46) and customer
// (48) orders with percentages (round 4, x100) and zero-guarded ratios.
func (r *AnalyticsRepo) OrderCountByType(ctx context.Context) ([]repository.OrderTypeRow, error) {
	const query = `
	WITH customer AS (
		SELECT d.week, COUNT(DISTINCT f.sk_order_id) AS order_volume
		FROM curated.f_order_picks f
		JOIN curated.d_date d ON f.pick_date = d.date
		WHERE f.origin = 48
		GROUP BY 1
	),
	store AS (
		SELECT d.week, COUNT(DISTINCT f.sk_order_id) AS order_volume
		FROM curated.f_order_picks f
		JOIN curated.d_date d ON f.pick_date = d.date
		WHERE f.origin = 46
		GROUP BY 1
	),
	all_orders AS (
		SELECT COALESCE(c.week, s.week)       AS week,
		       COALESCE(c.order_volume, 0)    AS customer_orders,
		       COALESCE(s.order_volume, 0)    AS store_orders
		FROM customer c
		FULL OUTER JOIN store s ON c.week = s.week
	)
	SELECT week,
	       customer_orders,
	       store_orders,
	       customer_orders + store_orders AS total_orders,
	       COALESCE(ROUND(customer_orders::numeric / NULLIF(customer_orders + store_orders, 0), 4) * 100, 0),
	       COALESCE(ROUND(store_orders::numeric    / NULLIF(customer_orders + store_orders, 0), 4) * 100, 0),
	       CASE WHEN customer_orders > 0 THEN ROUND(store_orders::numeric / customer_orders, 2) ELSE 0 END,
	       CASE WHEN store_orders > 0 THEN ROUND(customer_orders::numeric / store_orders, 2) ELSE 0 END
	FROM all_orders
	ORDER BY week`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.OrderCountByType: %w", err)
	}
	defer rows.Close()

	var results []repository.OrderTypeRow
	for rows.Next() {
		var row repository.OrderTypeRow
		if err := rows.Scan(
			&row.Week, &row.Customer, &row.Store, &row.Total,
			&row.CustomerPct, &row.StorePct, &row.RatioStore, &row.RatioCust,
		); err != nil {
			return nil, fmt.Errorf("analytics.OrderCountByType scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// WarehouseUtilization reports the weekly share of total pick volume per
// warehouse section.
func (r *AnalyticsRepo) WarehouseUtilization(ctx context.Context) ([]repository.UtilizationRow, error) {
	return r.utilization(ctx, "")
}

// UtilizationForWeek restricts utilization to one week label.
func (r *AnalyticsRepo) UtilizationForWeek(ctx context.Context, week string) ([]repository.UtilizationRow, error) {
	return r.utilization(ctx, week)
}

func (r *AnalyticsRepo) utilization(ctx context.Context, week string) ([]repository.UtilizationRow, error) {
	const query = `
	WITH section_agg AS (
		SELECT d.week, f.warehouse_section, SUM(f.pick_volume) AS pick_volume
		FROM curated.f_order_picks f
		JOIN curated.d_date d ON f.pick_date = d.date
		GROUP BY 1, 2
	),
	total_agg AS (
		SELECT week, SUM(pick_volume) AS pick_volume
		FROM section_agg
		GROUP BY 1
	)
	SELECT t.week,
	       s.warehouse_section,
	       COALESCE(ROUND(s.pick_volume::numeric / NULLIF(t.pick_volume, 0), 4) * 100, 0)
	FROM total_agg t
	JOIN section_agg s ON t.week = s.week
	WHERE ($1::text IS NULL OR t.week = $1)
	ORDER BY t.week, s.warehouse_section`

	var weekArg *string
	if week != "" {
		weekArg = &week
	}
	rows, err := r.pool.Query(ctx, query, weekArg)
	if err != nil {
		return nil, fmt.Errorf("analytics.WarehouseUtilization: %w", err)
	}
	defer rows.Close()

	var results []repository.UtilizationRow
	for rows.Next() {
		var row repository.UtilizationRow
		if err := rows.Scan(&row.Week, &row.Section, &row.UtilizationPct); err != nil {
			return nil, fmt.Errorf("analytics.WarehouseUtilization scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ── Throughput ────────────────────────────────────────────────────────────────

// PickThroughput returns the hourly pick volume series.
func (r *AnalyticsRepo) PickThroughput(ctx context.Context, q repository.RangeQuery) ([]repository.HourlyThroughputRow, error) {
	const query = `
	SELECT pick_date,
	       EXTRACT(HOUR FROM pick_timestamp)::INT AS pick_hour,
	       SUM(pick_volume)
	FROM curated.f_order_picks
	WHERE ($1::date IS NULL OR pick_date >= $1)
	  AND ($2::date IS NULL OR pick_date <= $2)
	GROUP BY 1, 2
	ORDER BY 1, 2`

	rows, err := r.pool.Query(ctx, query, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("analytics.PickThroughput: %w", err)
	}
	defer rows.Close()

	var results []repository.HourlyThroughputRow
	for rows.Next() {
		var row repository.HourlyThroughputRow
		if err := rows.Scan(&row.Date, &row.Hour, &row.Volume); err != nil {
			return nil, fmt.Errorf("analytics.PickThroughput scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// WeeklyThroughput averages the hourly volumes per week and dimension value.
func (r *AnalyticsRepo) WeeklyThroughput(ctx context.Context, dim repository.DrillDown) ([]repository.WeeklyThroughputRow, error) {
	query := fmt.Sprintf(`
	WITH hourly AS (
		SELECT f.pick_date,
		       EXTRACT(HOUR FROM f.pick_timestamp)::INT AS pick_hour,
		       %s AS dim,
		       SUM(f.pick_volume) AS pick_volume
		FROM curated.f_order_picks f
		%s
		GROUP BY 1, 2, 3
	)
	SELECT d.week, COALESCE(h.dim, ''), ROUND(AVG(h.pick_volume), 2)
	FROM hourly h
	JOIN curated.d_date d ON h.pick_date = d.date
	GROUP BY 1, 2
	ORDER BY 1, 2`,
		dimExpr(dim, "f"), dimJoin(dim, "f"))

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.WeeklyThroughput[%s]: %w", dim, err)
	}
	defer rows.Close()

	var results []repository.WeeklyThroughputRow
	for rows.Next() {
		var row repository.WeeklyThroughputRow
		if err := rows.Scan(&row.Week, &row.Dimension, &row.AvgVolume); err != nil {
			return nil, fmt.Errorf("analytics.WeeklyThroughput[%s] scan: %w", dim, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ── Distribution marts ────────────────────────────────────────────────────────

// binCase builds the CASE expression classifying per-order volume into the
// bins defined in the domain package.
func binCase() string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, bin := range entity.VolumeBins {
		fmt.Fprintf(&b, " WHEN pick_volume > %d AND pick_volume <= %d THEN '%s'", bin.Lower, bin.Upper, bin.Label)
	}
	b.WriteString(" END")
	return b.String()
}

// binLabels builds the VALUES list of bin labels for the calendar cross join.
func binLabels() string {
	labels := make([]string, len(entity.VolumeBins))
	for i, bin := range entity.VolumeBins {
		labels[i] = "('" + bin.Label + "')"
	}
	return strings.Join(labels, ", ")
}

// BinnedOrderVolume counts orders per volume bin per day, zero-filled over
// the calendar cross joined with every bin label.
func (r *AnalyticsRepo) BinnedOrderVolume(ctx context.Context, q repository.RangeQuery) ([]repository.BinnedVolumeRow, error) {
	query := fmt.Sprintf(`
	WITH order_volumes AS (
		SELECT pick_date, sk_order_id, SUM(pick_volume) AS pick_volume
		FROM curated.f_order_picks
		GROUP BY 1, 2
	),
	binned AS (
		SELECT pick_date, %s AS bin, COUNT(*) AS order_volume
		FROM order_volumes
		GROUP BY 1, 2
	)
	SELECT d.date, l.bin, COALESCE(b.order_volume, 0), d.week, d.month, d.quarter, d.year_half
	FROM curated.d_date d
	CROSS JOIN (VALUES %s) AS l(bin)
	LEFT JOIN binned b ON d.date = b.pick_date AND l.bin = b.bin
	WHERE ($1::date IS NULL OR d.date >= $1)
	  AND ($2::date IS NULL OR d.date <= $2)
	ORDER BY d.date, l.bin`,
		binCase(), binLabels())

	rows, err := r.pool.Query(ctx, query, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("analytics.BinnedOrderVolume: %w", err)
	}
	defer rows.Close()

	var results []repository.BinnedVolumeRow
	for rows.Next() {
		var row repository.BinnedVolumeRow
		if err := rows.Scan(&row.Date, &row.Bin, &row.Orders, &row.Week, &row.Month, &row.Quarter, &row.YearHalf); err != nil {
			return nil, fmt.Errorf("analytics.BinnedOrderVolume scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// WeeklyZScores standardizes per-order volume within each aggregation period.
// A period with zero or undefined stddev (single order, identical volumes)
// coalesces to 1, so its orders score zero instead of dividing by zero.
func (r *AnalyticsRepo) WeeklyZScores(ctx context.Context, period repository.AggPeriod) ([]repository.ZScoreRow, error) {
	// period is a validated member of the closed AggPeriod set
	query := fmt.Sprintf(`
	WITH orders AS (
		SELECT f.sk_order_id, d.%s AS period, SUM(f.pick_volume) AS pick_volume
		FROM curated.f_order_picks f
		JOIN curated.d_date d ON f.pick_date = d.date
		GROUP BY 1, 2
	),
	stats AS (
		SELECT period,
		       COALESCE(AVG(pick_volume), 0)                    AS mean_volume,
		       COALESCE(NULLIF(STDDEV_SAMP(pick_volume), 0), 1) AS std_volume
		FROM orders
		GROUP BY 1
	)
	SELECT o.sk_order_id, o.period, o.pick_volume,
	       ROUND((o.pick_volume - s.mean_volume) / s.std_volume, 4)
	FROM orders o
	JOIN stats s ON o.period = s.period
	ORDER BY o.period, o.sk_order_id`, string(period))

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.WeeklyZScores[%s]: %w", period, err)
	}
	defer rows.Close()

	var results []repository.ZScoreRow
	for rows.Next() {
		var row repository.ZScoreRow
		if err := rows.Scan(&row.OrderID, &row.Period, &row.Volume, &row.ZScore); err != nil {
			return nil, fmt.Errorf("analytics.WeeklyZScores[%s] scan: %w", period, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// OrderMix reports each warehouse section's percentage contribution to each
// order's total volume. The order is dated by its first pick.
func (r *AnalyticsRepo) OrderMix(ctx context.Context) ([]repository.OrderMixRow, error) {
	const query = `
	WITH per_section AS (
		SELECT sk_order_id, warehouse_section, SUM(pick_volume) AS section_volume
		FROM curated.f_order_picks
		GROUP BY 1, 2
	),
	per_order AS (
		SELECT sk_order_id, MIN(pick_date) AS order_date, SUM(pick_volume) AS order_volume
		FROM curated.f_order_picks
		GROUP BY 1
	)
	SELECT po.order_date,
	       ps.sk_order_id,
	       ps.warehouse_section,
	       COALESCE(ROUND(ps.section_volume::numeric / NULLIF(po.order_volume, 0), 4) * 100, 0)
	FROM per_section ps
	JOIN per_order po ON ps.sk_order_id = po.sk_order_id
	ORDER BY ps.sk_order_id, ps.warehouse_section`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.OrderMix: %w", err)
	}
	defer rows.Close()

	var results []repository.OrderMixRow
	for rows.Next() {
		var row repository.OrderMixRow
		if err := rows.Scan(&row.OrderDate, &row.OrderID, &row.Section, &row.SectionPct); err != nil {
			return nil, fmt.Errorf("analytics.OrderMix scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ── Dashboard and report helpers ──────────────────────────────────────────────

// Totals returns whole-dataset counters for the dashboard summary.
func (r *AnalyticsRepo) Totals(ctx context.Context) (repository.Totals, error) {
	const query = `
	SELECT COALESCE((SELECT SUM(pick_volume) FROM curated.f_order_picks), 0),
	       (SELECT COUNT(DISTINCT sk_order_id) FROM curated.f_order_picks),
	       (SELECT COUNT(*) FROM curated.f_pick_errors),
	       (SELECT COUNT(*) FROM curated.f_order_picks),
	       (SELECT COUNT(*) FROM curated.f_returns)`

	var t repository.Totals
	if err := r.pool.QueryRow(ctx, query).Scan(&t.PickVolume, &t.Orders, &t.PickErrors, &t.Picks, &t.Returns); err != nil {
		return repository.Totals{}, fmt.Errorf("analytics.Totals: %w", err)
	}
	return t, nil
}

// LatestWeek returns the week label of the most recent pick.
func (r *AnalyticsRepo) LatestWeek(ctx context.Context) (string, error) {
	const query = `
	SELECT d.week
	FROM curated.f_order_picks f
	JOIN curated.d_date d ON f.pick_date = d.date
	ORDER BY f.pick_date DESC
	LIMIT 1`

	var week string
	err := r.pool.QueryRow(ctx, query).Scan(&week)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("analytics.LatestWeek: %w", err)
	}
	return week, nil
}

// WeekSummary aggregates one week's volume, orders, errors and returns.
func (r *AnalyticsRepo) WeekSummary(ctx context.Context, week string) (repository.WeekSummary, error) {
	const query = `
	SELECT COALESCE((
	           SELECT SUM(f.pick_volume)
	           FROM curated.f_order_picks f
	           JOIN curated.d_date d ON f.pick_date = d.date
	           WHERE d.week = $1), 0),
	       (SELECT COUNT(DISTINCT f.sk_order_id)
	        FROM curated.f_order_picks f
	        JOIN curated.d_date d ON f.pick_date = d.date
	        WHERE d.week = $1),
	       (SELECT COUNT(*)
	        FROM curated.f_pick_errors pe
	        JOIN curated.d_date d ON pe.pick_date = d.date
	        WHERE d.week = $1),
	       (SELECT COUNT(*)
	        FROM curated.f_returns fr
	        JOIN curated.d_date d ON fr.return_date = d.date
	        WHERE d.week = $1)`

	s := repository.WeekSummary{Week: week}
	if err := r.pool.QueryRow(ctx, query, week).Scan(&s.PickVolume, &s.Orders, &s.PickErrors, &s.Returns); err != nil {
		return repository.WeekSummary{}, fmt.Errorf("analytics.WeekSummary: %w", err)
	}
	return s, nil
}

// TopProductsForWeek ranks the top n products of a single week.
func (r *AnalyticsRepo) TopProductsForWeek(ctx context.Context, week string, n int) ([]repository.TopProductRow, error) {
	const query = `
	WITH total_picks AS (
		SELECT d.week, f.product_id, COUNT(*) AS total_picks
		FROM curated.f_order_picks f
		JOIN curated.d_date d ON f.pick_date = d.date
		WHERE d.week = $1
		GROUP BY 1, 2
	)
	SELECT week, product_id, total_picks
	FROM total_picks
	ORDER BY total_picks DESC
	LIMIT $2`

	rows, err := r.pool.Query(ctx, query, week, n)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProductsForWeek: %w", err)
	}
	defer rows.Close()
	return scanTopProducts(rows, false)
}
