package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MartQuery binds the common mart query parameters. Dates are ISO (2006-01-02)
// and optional; drill_down is one of product_group, origin, warehouse_section.
type MartQuery struct {
	From      string `query:"from"`
	To        string `query:"to"`
	DrillDown string `query:"drill_down"`
}

// TopProductsQuery binds the top products parameters. top_n defaults to the
// configured rank depth.
type TopProductsQuery struct {
	DrillDown string `query:"drill_down"`
	TopN      int    `query:"top_n"`
}

// ZScoreQuery binds the z-score distribution parameters. period is one of
// week, month, quarter, year_half; empty means week.
type ZScoreQuery struct {
	Period string `query:"period"`
}

// DailyVolumeResponse one day of summed pick volume.
type DailyVolumeResponse struct {
	Date      string  `json:"date"`
	Dimension *string `json:"dimension,omitempty"`
	Volume    int64   `json:"pick_volume"`
	Week      string  `json:"week"`
	Month     string  `json:"month"`
	Quarter   string  `json:"quarter"`
	YearHalf  string  `json:"year_half"`
	Year      int     `json:"year"`
}

// DailyOrdersResponse one day of distinct order volume, zero-filled.
type DailyOrdersResponse struct {
	Date      string  `json:"date"`
	Dimension *string `json:"dimension,omitempty"`
	Orders    int64   `json:"order_volume"`
	Week      string  `json:"week"`
	Month     string  `json:"month"`
	Quarter   string  `json:"quarter"`
	YearHalf  string  `json:"year_half"`
	Year      int     `json:"year"`
}

// ErrorRateResponse daily pick errors against total picks.
type ErrorRateResponse struct {
	Date        string  `json:"date"`
	Week        string  `json:"week"`
	Month       string  `json:"month"`
	Dimension   *string `json:"dimension,omitempty"`
	TotalErrors int64   `json:"total_errors"`
	TotalPicks  int64   `json:"total_picks"`
}

// TopProductResponse one ranked product of a week.
type TopProductResponse struct {
	Week       string  `json:"week"`
	ProductID  string  `json:"product_id"`
	Dimension  *string `json:"dimension,omitempty"`
	TotalPicks int64   `json:"total_picks"`
}

// AvgProductsResponse weekly average distinct products per order.
type AvgProductsResponse struct {
	Week        string          `json:"week"`
	AvgProducts decimal.Decimal `json:"avg_products"`
}

// OrderTypeResponse weekly store vs customer order split.
type OrderTypeResponse struct {
	Week       string          `json:"week"`
	Customer   int64           `json:"customer_orders"`
	Store      int64           `json:"store_orders"`
	Total      int64           `json:"total_orders"`
	PctCust    decimal.Decimal `json:"pct_customer"`
	PctStore   decimal.Decimal `json:"pct_store"`
	RatioStore decimal.Decimal `json:"ratio_store_to_customer"`
	RatioCust  decimal.Decimal `json:"ratio_customer_to_store"`
}

// UtilizationResponse weekly pick volume share of one warehouse section.
type UtilizationResponse struct {
	Week           string          `json:"week"`
	Section        string          `json:"warehouse_section"`
	UtilizationPct decimal.Decimal `json:"utilization_pct"`
}

// HourlyThroughputResponse pick volume of one day and hour.
type HourlyThroughputResponse struct {
	Date   string `json:"pick_date"`
	Hour   int    `json:"pick_hour"`
	Volume int64  `json:"pick_volume"`
}

// WeeklyThroughputResponse average hourly pick volume per week and dimension.
type WeeklyThroughputResponse struct {
	Week      string          `json:"week"`
	Dimension string          `json:"dimension"`
	AvgVolume decimal.Decimal `json:"avg_pick_volume"`
}

// BinnedVolumeResponse daily order count of one volume bin.
type BinnedVolumeResponse struct {
	Date     string `json:"date"`
	Bin      string `json:"bin"`
	Orders   int64  `json:"order_volume"`
	Week     string `json:"week"`
	Month    string `json:"month"`
	Quarter  string `json:"quarter"`
	YearHalf string `json:"year_half"`
}

// ZScoreResponse one order's standardized volume within its period.
// Outlier marks |z| > 3.
type ZScoreResponse struct {
	OrderID string          `json:"sk_order_id"`
	Period  string          `json:"period"`
	Volume  int64           `json:"pick_volume"`
	ZScore  decimal.Decimal `json:"z_score"`
	Outlier bool            `json:"outlier"`
}

// ZScoreDistribution the full distribution plus the outlier count.
type ZScoreDistribution struct {
	Period   string           `json:"period"`
	Outliers int              `json:"outliers"`
	Orders   []ZScoreResponse `json:"orders"`
}

// OrderMixResponse one section's contribution to one order.
type OrderMixResponse struct {
	OrderDate  string          `json:"order_date"`
	OrderID    string          `json:"sk_order_id"`
	Section    string          `json:"warehouse_section"`
	SectionPct decimal.Decimal `json:"section_pct"`
}

// FormatDate renders a mart date the way artifacts do.
func FormatDate(t time.Time) string { return t.Format("2006-01-02") }
