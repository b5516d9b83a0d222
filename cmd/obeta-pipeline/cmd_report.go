package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Appy-Anand/obeta-project/internal/application/report"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/pdf"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/postgres"
)

var (
	reportWeek string
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the weekly operations report as a PDF",
	Long: `Renders the weekly KPI report (pick volume, orders, errors, returns,
top products and warehouse utilization) from the curated schema. Without
--week the most recent week with picks is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		uc := report.NewUsecase(
			postgres.NewAnalyticsRepository(a.pool),
			pdf.NewWeeklyReportGenerator(),
			a.cfg.Pipeline.TopNProducts,
		)

		doc, week, err := uc.Weekly(ctx, reportWeek)
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			out = fmt.Sprintf("weekly_report_%s.pdf", week)
		}
		if err := os.WriteFile(out, doc, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		cmd.Printf("wrote %s (%d bytes)\n", out, len(doc))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportWeek, "week", "", "week label (YYYY_WW), default: latest week with picks")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path, default: weekly_report_<week>.pdf")
}
