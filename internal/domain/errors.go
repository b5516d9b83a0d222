package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("access denied")
	ErrSourceMissing    = errors.New("source data directory not found")
	ErrRunInProgress    = errors.New("a pipeline run is already in progress")
	ErrInvalidDrillDown = errors.New("unknown drill-down dimension")
	ErrInvalidWeek      = errors.New("invalid week label")
)
