package analytics

import (
	"context"
	"errors"

	"github.com/Appy-Anand/obeta-project/internal/application/dto"
	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

// DashboardUsecase assembles the landing summary: overall totals plus the
// latest week's top products and section utilization.
type DashboardUsecase struct {
	repo repository.AnalyticsRepository
	topN int
}

// NewDashboardUsecase wires the dashboard usecase.
func NewDashboardUsecase(repo repository.AnalyticsRepository, topN int) *DashboardUsecase {
	if topN <= 0 {
		topN = 10
	}
	return &DashboardUsecase{repo: repo, topN: topN}
}

// Summary fans the three queries out concurrently and assembles the result.
// An empty warehouse (no picks curated yet) yields totals only.
func (u *DashboardUsecase) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	week, err := u.repo.LatestWeek(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		totals, err := u.repo.Totals(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.DashboardSummary{
			Totals:      mapTotals(totals),
			TopProducts: []dto.TopProductResponse{},
			Utilization: []dto.UtilizationResponse{},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	totalsCh := make(chan repository.Totals, 1)
	productsCh := make(chan []repository.TopProductRow, 1)
	utilizationCh := make(chan []repository.UtilizationRow, 1)
	errCh := make(chan error, 3)

	go func() {
		t, err := u.repo.Totals(ctx)
		if err != nil {
			errCh <- err
			return
		}
		totalsCh <- t
	}()
	go func() {
		rows, err := u.repo.TopProductsForWeek(ctx, week, u.topN)
		if err != nil {
			errCh <- err
			return
		}
		productsCh <- rows
	}()
	go func() {
		rows, err := u.repo.UtilizationForWeek(ctx, week)
		if err != nil {
			errCh <- err
			return
		}
		utilizationCh <- rows
	}()

	summary := &dto.DashboardSummary{LatestWeek: week}
	for i := 0; i < 3; i++ {
		select {
		case t := <-totalsCh:
			summary.Totals = mapTotals(t)
		case rows := <-productsCh:
			summary.TopProducts = make([]dto.TopProductResponse, 0, len(rows))
			for _, r := range rows {
				summary.TopProducts = append(summary.TopProducts, dto.TopProductResponse{
					Week: r.Week, ProductID: r.ProductID, TotalPicks: r.TotalPicks,
				})
			}
		case rows := <-utilizationCh:
			summary.Utilization = mapUtilization(rows)
		case err := <-errCh:
			return nil, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if summary.TopProducts == nil {
		summary.TopProducts = []dto.TopProductResponse{}
	}
	if summary.Utilization == nil {
		summary.Utilization = []dto.UtilizationResponse{}
	}
	return summary, nil
}

func mapTotals(t repository.Totals) dto.DashboardTotals {
	return dto.DashboardTotals{
		PickVolume: t.PickVolume,
		Orders:     t.Orders,
		Picks:      t.Picks,
		PickErrors: t.PickErrors,
		Returns:    t.Returns,
	}
}
