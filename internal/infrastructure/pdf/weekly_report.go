// Package pdf renders the weekly operations report.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Warehouse Weekly Report │ week + generated date    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPI ROW: Pick volume | Orders | Pick errors | Returns      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Top products (rank | product | picks)               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Section utilization (section | % of volume)         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/Appy-Anand/obeta-project/internal/application/report"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

// ── Color palette ─────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 178, Green: 24, Blue: 43}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.PDFGenerator = (*WeeklyReportGenerator)(nil)

// WeeklyReportGenerator implements report.PDFGenerator using Maroto v2.
type WeeklyReportGenerator struct{}

// NewWeeklyReportGenerator builds the generator.
func NewWeeklyReportGenerator() *WeeklyReportGenerator { return &WeeklyReportGenerator{} }

// GenerateWeeklyReport renders the report and returns its bytes.
func (g *WeeklyReportGenerator) GenerateWeeklyReport(_ context.Context, r *report.WeeklyReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Warehouse Weekly Report "+r.Week, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRow(r.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitleRow("TOP PRODUCTS"))
	m.AddRows(productsHeaderRow())
	for _, pr := range productRows(r.TopProducts) {
		m.AddRows(pr)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitleRow("WAREHOUSE SECTION UTILIZATION"))
	m.AddRows(utilizationHeaderRow())
	for _, ur := range utilizationRows(r.Utilization) {
		m.AddRows(ur)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

func headerRow(r *report.WeeklyReport) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("WAREHOUSE WEEKLY REPORT", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Order picking operations", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Week "+r.Week, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Generated: "+r.GeneratedAt.Format("2006-01-02 15:04 UTC"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// kpiRow: the four weekly counters side by side.
func kpiRow(s repository.WeekSummary) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 1,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Center,
				Color: colorPrimary, Top: 6,
			}),
		)
	}
	return row.New(16).Add(
		kpi("Pick volume", fmt.Sprintf("%d", s.PickVolume)),
		kpi("Orders", fmt.Sprintf("%d", s.Orders)),
		kpi("Pick errors", fmt.Sprintf("%d", s.PickErrors)),
		kpi("Returns", fmt.Sprintf("%d", s.Returns)),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	))
}

func productsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("#", 1, align.Center),
		h("Product", 8, align.Left),
		h("Picks", 3, align.Right),
	)
}

func productRows(products []repository.TopProductRow) []core.Row {
	if len(products) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("No picks recorded this week.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		))}
	}
	result := make([]core.Row, 0, len(products))
	for i, p := range products {
		result = append(result, row.New(5).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", i+1), props.Text{
				Size: 8, Align: align.Center, Top: 0.5,
			})),
			col.New(8).Add(text.New(p.ProductID, props.Text{
				Size: 8, Align: align.Left, Top: 0.5,
			})),
			col.New(3).Add(text.New(fmt.Sprintf("%d", p.TotalPicks), props.Text{
				Size: 8, Align: align.Right, Top: 0.5,
			})),
		))
	}
	return result
}

func utilizationHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Section", 9, align.Left),
		h("% of pick volume", 3, align.Right),
	)
}

func utilizationRows(sections []repository.UtilizationRow) []core.Row {
	if len(sections) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("No section activity this week.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		))}
	}
	result := make([]core.Row, 0, len(sections))
	for _, s := range sections {
		result = append(result, row.New(5).Add(
			col.New(9).Add(text.New(s.Section, props.Text{
				Size: 8, Align: align.Left, Top: 0.5,
			})),
			col.New(3).Add(text.New(s.UtilizationPct.StringFixed(1)+" %", props.Text{
				Size: 8, Align: align.Right, Top: 0.5,
			})),
		))
	}
	return result
}

func footerRow(r *report.WeeklyReport) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Figures cover calendar week %s of the curated pick history. "+
				"Error and return counts reflect zero- and negative-volume picks.", r.Week),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
