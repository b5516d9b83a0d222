package main

import (
	"github.com/spf13/cobra"

	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
)

var martsCmd = &cobra.Command{
	Use:   "marts",
	Short: "Export the KPI mart CSVs from the curated schema",
	Long: `Runs every KPI query against the curated schema and writes the
results as CSV files under <data-dir>/marts, including the drill-down
variants per product group, origin and warehouse section. Files are
replaced atomically so readers never see a partial export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executePhase(cmd, entity.PhaseMarts)
	},
}
