// Package analytics exposes the KPI marts and the dashboard summary to the
// HTTP layer: parameter validation, repository calls, DTO mapping.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/Appy-Anand/obeta-project/internal/application/dto"
	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

// maxTopN caps the top products rank depth per request.
const maxTopN = 100

// MartsUsecase serves the eleven KPI marts.
type MartsUsecase struct {
	repo repository.AnalyticsRepository
	topN int // default rank depth
}

// NewMartsUsecase wires the marts usecase.
func NewMartsUsecase(repo repository.AnalyticsRepository, topN int) *MartsUsecase {
	if topN <= 0 {
		topN = 10
	}
	return &MartsUsecase{repo: repo, topN: topN}
}

// parseRange validates the common mart parameters.
func parseRange(q dto.MartQuery) (repository.RangeQuery, error) {
	var rq repository.RangeQuery

	parse := func(s, name string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidInput, name)
		}
		return &t, nil
	}

	var err error
	if rq.From, err = parse(q.From, "from"); err != nil {
		return rq, err
	}
	if rq.To, err = parse(q.To, "to"); err != nil {
		return rq, err
	}
	if rq.From != nil && rq.To != nil && rq.To.Before(*rq.From) {
		return rq, fmt.Errorf("%w: to before from", domain.ErrInvalidInput)
	}
	if rq.DrillDown, err = repository.ParseDrillDown(q.DrillDown); err != nil {
		return rq, err
	}
	return rq, nil
}

// PickVolume serves the daily total pick volume mart.
func (u *MartsUsecase) PickVolume(ctx context.Context, q dto.MartQuery) ([]dto.DailyVolumeResponse, error) {
	rq, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	rows, err := u.repo.TotalPickVolume(ctx, rq)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailyVolumeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DailyVolumeResponse{
			Date: dto.FormatDate(r.Date), Dimension: r.Dimension, Volume: r.Volume,
			Week: r.Week, Month: r.Month, Quarter: r.Quarter, YearHalf: r.YearHalf, Year: r.Year,
		})
	}
	return out, nil
}

// OrdersProcessed serves the daily order volume mart.
func (u *MartsUsecase) OrdersProcessed(ctx context.Context, q dto.MartQuery) ([]dto.DailyOrdersResponse, error) {
	rq, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	rows, err := u.repo.TotalOrdersProcessed(ctx, rq)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailyOrdersResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DailyOrdersResponse{
			Date: dto.FormatDate(r.Date), Dimension: r.Dimension, Orders: r.Orders,
			Week: r.Week, Month: r.Month, Quarter: r.Quarter, YearHalf: r.YearHalf, Year: r.Year,
		})
	}
	return out, nil
}

// PickErrors serves the daily error rate mart.
func (u *MartsUsecase) PickErrors(ctx context.Context, q dto.MartQuery) ([]dto.ErrorRateResponse, error) {
	rq, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	rows, err := u.repo.PickErrorRates(ctx, rq)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ErrorRateResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ErrorRateResponse{
			Date: dto.FormatDate(r.Date), Week: r.Week, Month: r.Month,
			Dimension: r.Dimension, TotalErrors: r.TotalErrors, TotalPicks: r.TotalPicks,
		})
	}
	return out, nil
}

// TopProducts serves the weekly top products mart.
func (u *MartsUsecase) TopProducts(ctx context.Context, q dto.TopProductsQuery) ([]dto.TopProductResponse, error) {
	dim, err := repository.ParseDrillDown(q.DrillDown)
	if err != nil {
		return nil, err
	}
	n := q.TopN
	if n <= 0 {
		n = u.topN
	}
	if n > maxTopN {
		n = maxTopN
	}
	rows, err := u.repo.TopProductsWeekly(ctx, n, dim)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProductResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductResponse{
			Week: r.Week, ProductID: r.ProductID, Dimension: r.Dimension, TotalPicks: r.TotalPicks,
		})
	}
	return out, nil
}

// AvgProductsPerOrder serves the weekly order breadth mart.
func (u *MartsUsecase) AvgProductsPerOrder(ctx context.Context) ([]dto.AvgProductsResponse, error) {
	rows, err := u.repo.AvgProductsPerOrder(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AvgProductsResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.AvgProductsResponse{Week: r.Week, AvgProducts: r.AvgProducts})
	}
	return out, nil
}

// OrderCountByType serves the weekly store vs customer split.
func (u *MartsUsecase) OrderCountByType(ctx context.Context) ([]dto.OrderTypeResponse, error) {
	rows, err := u.repo.OrderCountByType(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderTypeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.OrderTypeResponse{
			Week: r.Week, Customer: r.Customer, Store: r.Store, Total: r.Total,
			PctCust: r.CustomerPct, PctStore: r.StorePct,
			RatioStore: r.RatioStore, RatioCust: r.RatioCust,
		})
	}
	return out, nil
}

// WarehouseUtilization serves the weekly section utilization mart.
func (u *MartsUsecase) WarehouseUtilization(ctx context.Context) ([]dto.UtilizationResponse, error) {
	rows, err := u.repo.WarehouseUtilization(ctx)
	if err != nil {
		return nil, err
	}
	return mapUtilization(rows), nil
}

func mapUtilization(rows []repository.UtilizationRow) []dto.UtilizationResponse {
	out := make([]dto.UtilizationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.UtilizationResponse{
			Week: r.Week, Section: r.Section, UtilizationPct: r.UtilizationPct,
		})
	}
	return out
}

// HourlyThroughput serves the base hourly pick throughput series.
func (u *MartsUsecase) HourlyThroughput(ctx context.Context, q dto.MartQuery) ([]dto.HourlyThroughputResponse, error) {
	rq, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	rows, err := u.repo.PickThroughput(ctx, rq)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HourlyThroughputResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.HourlyThroughputResponse{
			Date: dto.FormatDate(r.Date), Hour: r.Hour, Volume: r.Volume,
		})
	}
	return out, nil
}

// WeeklyThroughput serves the per-dimension weekly throughput averages.
func (u *MartsUsecase) WeeklyThroughput(ctx context.Context, drillDown string) ([]dto.WeeklyThroughputResponse, error) {
	dim, err := repository.ParseDrillDown(drillDown)
	if err != nil {
		return nil, err
	}
	if dim == nil {
		return nil, fmt.Errorf("%w: drill_down required for weekly throughput", domain.ErrInvalidInput)
	}
	rows, err := u.repo.WeeklyThroughput(ctx, *dim)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WeeklyThroughputResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.WeeklyThroughputResponse{
			Week: r.Week, Dimension: r.Dimension, AvgVolume: r.AvgVolume,
		})
	}
	return out, nil
}

// BinnedOrderVolume serves the daily order volume distribution mart.
func (u *MartsUsecase) BinnedOrderVolume(ctx context.Context, q dto.MartQuery) ([]dto.BinnedVolumeResponse, error) {
	rq, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	rows, err := u.repo.BinnedOrderVolume(ctx, rq)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BinnedVolumeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.BinnedVolumeResponse{
			Date: dto.FormatDate(r.Date), Bin: r.Bin, Orders: r.Orders,
			Week: r.Week, Month: r.Month, Quarter: r.Quarter, YearHalf: r.YearHalf,
		})
	}
	return out, nil
}

// ZScores serves the per-order z-score distribution with the outlier count.
func (u *MartsUsecase) ZScores(ctx context.Context, q dto.ZScoreQuery) (*dto.ZScoreDistribution, error) {
	period, err := repository.ParseAggPeriod(q.Period)
	if err != nil {
		return nil, err
	}
	rows, err := u.repo.WeeklyZScores(ctx, period)
	if err != nil {
		return nil, err
	}
	dist := &dto.ZScoreDistribution{
		Period: string(period),
		Orders: make([]dto.ZScoreResponse, 0, len(rows)),
	}
	for _, r := range rows {
		outlier := r.Outlier()
		if outlier {
			dist.Outliers++
		}
		dist.Orders = append(dist.Orders, dto.ZScoreResponse{
			OrderID: r.OrderID, Period: r.Period, Volume: r.Volume,
			ZScore: r.ZScore, Outlier: outlier,
		})
	}
	return dist, nil
}

// OrderMix serves the per-order section mix mart.
func (u *MartsUsecase) OrderMix(ctx context.Context) ([]dto.OrderMixResponse, error) {
	rows, err := u.repo.OrderMix(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderMixResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.OrderMixResponse{
			OrderDate: dto.FormatDate(r.OrderDate), OrderID: r.OrderID,
			Section: r.Section, SectionPct: r.SectionPct,
		})
	}
	return out, nil
}
