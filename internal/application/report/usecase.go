// Package report builds the weekly operations report: one week's KPIs
// rendered as a PDF for distribution outside the API.
package report

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

// weekPattern matches the calendar week labels, e.g. "2018_13".
var weekPattern = regexp.MustCompile(`^\d{4}_\d{2}$`)

// WeeklyReport is the assembled input of the PDF renderer.
type WeeklyReport struct {
	Week        string
	Summary     repository.WeekSummary
	TopProducts []repository.TopProductRow
	Utilization []repository.UtilizationRow
	GeneratedAt time.Time
}

// PDFGenerator renders the assembled report.
type PDFGenerator interface {
	GenerateWeeklyReport(ctx context.Context, r *WeeklyReport) ([]byte, error)
}

// Usecase assembles and renders weekly reports.
type Usecase struct {
	repo repository.AnalyticsRepository
	pdf  PDFGenerator
	topN int
}

// NewUsecase wires the report usecase.
func NewUsecase(repo repository.AnalyticsRepository, pdf PDFGenerator, topN int) *Usecase {
	if topN <= 0 {
		topN = 10
	}
	return &Usecase{repo: repo, pdf: pdf, topN: topN}
}

// Weekly renders the report for one week label; empty week means the latest
// week with picks. Returns the PDF bytes and the resolved week.
func (u *Usecase) Weekly(ctx context.Context, week string) ([]byte, string, error) {
	if week == "" {
		latest, err := u.repo.LatestWeek(ctx)
		if err != nil {
			return nil, "", err
		}
		week = latest
	} else if !weekPattern.MatchString(week) {
		return nil, "", fmt.Errorf("%w: %q, want YYYY_WW", domain.ErrInvalidWeek, week)
	}

	data := &WeeklyReport{Week: week, GeneratedAt: time.Now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := u.repo.WeekSummary(ctx, week)
		if err != nil {
			return err
		}
		data.Summary = s
		return nil
	})
	g.Go(func() error {
		rows, err := u.repo.TopProductsForWeek(ctx, week, u.topN)
		if err != nil {
			return err
		}
		data.TopProducts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := u.repo.UtilizationForWeek(ctx, week)
		if err != nil {
			return err
		}
		data.Utilization = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, "", fmt.Errorf("report %s: %w", week, err)
	}

	pdf, err := u.pdf.GenerateWeeklyReport(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("report %s: %w", week, err)
	}
	return pdf, week, nil
}
