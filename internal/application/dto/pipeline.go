package dto

import "time"

// StartRunRequest selects the phase to run: stage, curate, marts or run.
type StartRunRequest struct {
	Phase string `json:"phase"`
}

// RunResponse is one pipeline run record.
type RunResponse struct {
	ID         string           `json:"id"`
	Phase      string           `json:"phase"`
	Status     string           `json:"status"`
	RowCounts  map[string]int64 `json:"row_counts"`
	Anomalies  map[string]int64 `json:"anomalies"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Error      string           `json:"error,omitempty"`
}
