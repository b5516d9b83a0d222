package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Appy-Anand/obeta-project/internal/domain"
)

// AggPeriod is a d_date grain used to group the z-score distribution.
type AggPeriod string

const (
	PeriodWeek     AggPeriod = "week"
	PeriodMonth    AggPeriod = "month"
	PeriodQuarter  AggPeriod = "quarter"
	PeriodYearHalf AggPeriod = "year_half"
)

// ParseAggPeriod validates a query-string value; empty input defaults to week.
func ParseAggPeriod(s string) (AggPeriod, error) {
	switch AggPeriod(s) {
	case "":
		return PeriodWeek, nil
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYearHalf:
		return AggPeriod(s), nil
	}
	return "", domain.ErrInvalidInput
}

// RangeQuery bounds a day-grain mart. Nil bounds mean unbounded; DrillDown
// nil means the undivided series.
type RangeQuery struct {
	From      *time.Time
	To        *time.Time
	DrillDown *DrillDown
}

// ── Mart row types ────────────────────────────────────────────────────────────

// DailyVolumeRow daily summed pick volume joined to the date dimension.
// Dimension is set only for drill-down queries.
type DailyVolumeRow struct {
	Date      time.Time
	Dimension *string
	Volume    int64
	Week      string
	Month     string
	Quarter   string
	YearHalf  string
	Year      int
}

// DailyOrdersRow daily distinct order count, zero-filled over the calendar.
// Date labels come from d_date, so empty days carry them too.
type DailyOrdersRow struct {
	Date      time.Time
	Dimension *string
	Orders    int64
	Week      string
	Month     string
	Quarter   string
	YearHalf  string
	Year      int
}

// ErrorRateRow pick errors vs total picks per day.
type ErrorRateRow struct {
	Date        time.Time
	Week        string
	Month       string
	Dimension   *string
	TotalErrors int64
	TotalPicks  int64
}

// TopProductRow one ranked product within a week (and drill-down value).
type TopProductRow struct {
	Week       string
	ProductID  string
	Dimension  *string
	TotalPicks int64
}

// AvgProductsRow weekly average of distinct products per order. An order is
// dated by its first pick.
type AvgProductsRow struct {
	Week        string
	AvgProducts decimal.Decimal
}

// OrderTypeRow weekly order volume split store (46) vs customer (48).
// Percentages are rounded to 4 places and scaled by 100; ratios to 2 places
// with zero-guarded divisions.
type OrderTypeRow struct {
	Week         string
	Customer     int64 // origin 48
	Store        int64 // origin 46
	Total        int64
	CustomerPct  decimal.Decimal
	StorePct     decimal.Decimal
	RatioStore   decimal.Decimal // store / customer
	RatioCust    decimal.Decimal // customer / store
}

// UtilizationRow weekly share of total pick volume per warehouse section.
type UtilizationRow struct {
	Week           string
	Section        string
	UtilizationPct decimal.Decimal
}

// HourlyThroughputRow pick volume per day and hour.
type HourlyThroughputRow struct {
	Date   time.Time
	Hour   int
	Volume int64
}

// WeeklyThroughputRow average hourly pick volume per week and dimension value.
type WeeklyThroughputRow struct {
	Week      string
	Dimension string
	AvgVolume decimal.Decimal
}

// BinnedVolumeRow daily count of orders per volume bin, zero-filled over the
// calendar cross joined with the bin labels.
type BinnedVolumeRow struct {
	Date     time.Time
	Bin      string
	Orders   int64
	Week     string
	Month    string
	Quarter  string
	YearHalf string
}

// ZScoreRow per-order total volume z-score within its aggregation period.
// Degenerate periods (stddev zero or a single order) score zero.
type ZScoreRow struct {
	OrderID string
	Period  string
	Volume  int64
	ZScore  decimal.Decimal
}

var outlierThreshold = decimal.NewFromInt(3)

// Outlier reports whether the order sits more than three standard deviations
// from its period mean.
func (r ZScoreRow) Outlier() bool {
	return r.ZScore.Abs().GreaterThan(outlierThreshold)
}

// OrderMixRow percentage contribution of one warehouse section to one order.
type OrderMixRow struct {
	OrderDate  time.Time
	OrderID    string
	Section    string
	SectionPct decimal.Decimal
}

// Totals whole-dataset counters for the dashboard.
type Totals struct {
	PickVolume int64
	Orders     int64
	PickErrors int64
	Picks      int64
	Returns    int64
}

// WeekSummary aggregates one week for the operations report.
type WeekSummary struct {
	Week       string
	PickVolume int64
	Orders     int64
	PickErrors int64
	Returns    int64
}

// AnalyticsRepository is the read side over the curated star schema: every
// method is one KPI mart. Implementations must treat drill-down dimensions as
// a closed set and never interpolate caller input into SQL.
type AnalyticsRepository interface {
	TotalPickVolume(ctx context.Context, q RangeQuery) ([]DailyVolumeRow, error)
	TotalOrdersProcessed(ctx context.Context, q RangeQuery) ([]DailyOrdersRow, error)
	PickErrorRates(ctx context.Context, q RangeQuery) ([]ErrorRateRow, error)
	TopProductsWeekly(ctx context.Context, n int, dim *DrillDown) ([]TopProductRow, error)
	AvgProductsPerOrder(ctx context.Context) ([]AvgProductsRow, error)
	OrderCountByType(ctx context.Context) ([]OrderTypeRow, error)
	WarehouseUtilization(ctx context.Context) ([]UtilizationRow, error)
	PickThroughput(ctx context.Context, q RangeQuery) ([]HourlyThroughputRow, error)
	WeeklyThroughput(ctx context.Context, dim DrillDown) ([]WeeklyThroughputRow, error)
	BinnedOrderVolume(ctx context.Context, q RangeQuery) ([]BinnedVolumeRow, error)
	WeeklyZScores(ctx context.Context, period AggPeriod) ([]ZScoreRow, error)
	OrderMix(ctx context.Context) ([]OrderMixRow, error)

	// Dashboard and report helpers.
	Totals(ctx context.Context) (Totals, error)
	LatestWeek(ctx context.Context) (string, error)
	WeekSummary(ctx context.Context, week string) (WeekSummary, error)
	TopProductsForWeek(ctx context.Context, week string, n int) ([]TopProductRow, error)
	UtilizationForWeek(ctx context.Context, week string) ([]UtilizationRow, error)
}
