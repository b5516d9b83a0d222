package dto

// DashboardTotals whole-dataset counters.
type DashboardTotals struct {
	PickVolume int64 `json:"pick_volume"`
	Orders     int64 `json:"orders"`
	Picks      int64 `json:"picks"`
	PickErrors int64 `json:"pick_errors"`
	Returns    int64 `json:"returns"`
}

// DashboardSummary is the aggregated landing view: overall totals plus the
// latest week's top products and section utilization.
type DashboardSummary struct {
	Totals      DashboardTotals       `json:"totals"`
	LatestWeek  string                `json:"latest_week"`
	TopProducts []TopProductResponse  `json:"top_products"`
	Utilization []UtilizationResponse `json:"warehouse_utilization"`
}
