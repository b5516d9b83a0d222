package main

import (
	"github.com/spf13/cobra"

	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
)

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Rebuild the curated star schema from staging",
	Long: `Rebuilds the dimension and fact tables inside one transaction:
the date, product and warehouse section dimensions, then the pick facts
split by volume into order picks, pick errors and returns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executePhase(cmd, entity.PhaseCurate)
	},
}
