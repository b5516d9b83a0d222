package entity

// StagingAnomalies counts well-formed but suspicious pick rows seen while
// reading the source. They are staged anyway; curation routes them into the
// error and return facts.
type StagingAnomalies struct {
	ZeroVolume     int64
	NegativeVolume int64
}
