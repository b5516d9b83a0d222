package main

import (
	"github.com/spf13/cobra"

	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: stage, curate, marts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return executePhase(cmd, entity.PhaseFull)
	},
}
