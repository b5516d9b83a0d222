package repository

import (
	"context"

	"github.com/Appy-Anand/obeta-project/internal/domain/calendar"
)

// PickSplit reports how the staged picks were distributed across the three
// fact tables by pick volume sign.
type PickSplit struct {
	OrderPicks int64 // pick_volume > 0
	PickErrors int64 // pick_volume = 0
	Returns    int64 // pick_volume < 0, negated into return_volume
}

// CurationRepository rebuilds the curated star schema from staging. All
// tables are truncated and rewritten per run; the pipeline executes the whole
// phase inside one transaction so readers never observe a half-built schema.
type CurationRepository interface {
	// ReplaceDateDim bulk-loads the generated date dimension.
	ReplaceDateDim(ctx context.Context, days []calendar.Day) (int64, error)

	// CurateProducts copies staged product details into d_product.
	CurateProducts(ctx context.Context) (int64, error)

	// CurateWarehouseSections copies staged sections into d_warehouse_section.
	CurateWarehouseSections(ctx context.Context) (int64, error)

	// CuratePicks derives surrogate keys over the full staged pick set and
	// splits it into f_order_picks, f_pick_errors and f_returns.
	CuratePicks(ctx context.Context) (PickSplit, error)
}
