package main

import (
	"github.com/spf13/cobra"

	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Load the source CSVs into the staging schema",
	Long: `Reads the three source files (pick_data.csv, product_details.csv,
warehouse_sections.csv) from the data directory and replaces the staging
tables with their contents. Rows with zero or negative pick volumes are
loaded as-is and counted as anomalies; the curate phase routes them into
the error and return fact tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executePhase(cmd, entity.PhaseStage)
	},
}
