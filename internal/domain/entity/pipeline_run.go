package entity

import "time"

// Pipeline phases. "run" covers the full stage -> curate -> marts sequence.
const (
	PhaseStage  = "stage"
	PhaseCurate = "curate"
	PhaseMarts  = "marts"
	PhaseFull   = "run"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// PipelineRun records one execution of a pipeline phase: what ran, how many
// rows each dataset moved, the anomalies seen at staging and the outcome.
type PipelineRun struct {
	ID         string // uuid
	Phase      string
	Status     string
	RowCounts  map[string]int64 // rows written per dataset/table
	Anomalies  map[string]int64 // anomalous source rows per class
	StartedAt  time.Time
	FinishedAt *time.Time
	Error      string // non-empty only for failed runs
}
