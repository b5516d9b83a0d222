package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Appy-Anand/obeta-project/internal/domain/calendar"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

var _ repository.CurationRepository = (*CurationRepo)(nil)

// CurationRepo rebuilds the curated star schema with set-based SQL against
// staging. Usable with pool or tx (Querier); the pipeline runs the whole
// phase through TxRunner so the rebuild is atomic.
type CurationRepo struct {
	q Querier
}

// NewCurationRepository builds the curation adapter. Pass pool or tx (Querier).
func NewCurationRepository(q Querier) *CurationRepo {
	return &CurationRepo{q: q}
}

// ReplaceDateDim truncates and bulk-loads curated.d_date.
func (r *CurationRepo) ReplaceDateDim(ctx context.Context, days []calendar.Day) (int64, error) {
	if _, err := r.q.Exec(ctx, "TRUNCATE curated.d_date"); err != nil {
		return 0, fmt.Errorf("curation.d_date: truncate: %w", err)
	}
	columns := []string{"date", "year", "week", "month", "quarter", "year_half"}
	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"curated", "d_date"}, columns,
		pgx.CopyFromSlice(len(days), func(i int) ([]any, error) {
			d := days[i]
			return []any{d.Date, d.Year, d.Week, d.Month, d.Quarter, d.YearHalf}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("curation.d_date: copy: %w", err)
	}
	return n, nil
}

// CurateProducts copies staged product details into d_product.
func (r *CurationRepo) CurateProducts(ctx context.Context) (int64, error) {
	if _, err := r.q.Exec(ctx, "TRUNCATE curated.d_product"); err != nil {
		return 0, fmt.Errorf("curation.d_product: truncate: %w", err)
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO curated.d_product (product_id, description, product_group)
		SELECT DISTINCT ON (product_id) product_id, description, product_group
		FROM staging.product_details
		ORDER BY product_id`)
	if err != nil {
		return 0, fmt.Errorf("curation.d_product: insert: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CurateWarehouseSections copies staged sections into d_warehouse_section.
// Always writes, even when staging is empty.
func (r *CurationRepo) CurateWarehouseSections(ctx context.Context) (int64, error) {
	if _, err := r.q.Exec(ctx, "TRUNCATE curated.d_warehouse_section"); err != nil {
		return 0, fmt.Errorf("curation.d_warehouse_section: truncate: %w", err)
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO curated.d_warehouse_section (abbreviation, description, section_group, pick_reference)
		SELECT DISTINCT ON (abbreviation) abbreviation, description, section_group, pick_reference
		FROM staging.warehouse_sections
		ORDER BY abbreviation`)
	if err != nil {
		return 0, fmt.Errorf("curation.d_warehouse_section: insert: %w", err)
	}
	return tag.RowsAffected(), nil
}

// keyedPicks derives the surrogate keys over the full staged pick set:
//   - sk_order_id: order_number + "_" + year of the pick; order numbers
//     recycle across years, the year suffix disambiguates them.
//   - sk_position_in_order: 1-based rank within (sk_order_id, origin)
//     ordered by pick timestamp.
const keyedPicks = `
	WITH keyed AS (
		SELECT *,
		       order_number || '_' || EXTRACT(YEAR FROM pick_timestamp)::INT::TEXT AS sk_order_id
		FROM staging.pick_data
	),
	ranked AS (
		SELECT *,
		       ROW_NUMBER() OVER (
		           PARTITION BY sk_order_id, origin
		           ORDER BY pick_timestamp
		       ) AS sk_position_in_order
		FROM keyed
	)`

// CuratePicks splits the staged picks by volume sign into the three fact
// tables. Returns keep the magnitude: volume is negated into return_volume.
func (r *CurationRepo) CuratePicks(ctx context.Context) (repository.PickSplit, error) {
	var split repository.PickSplit

	for _, table := range []string{"f_order_picks", "f_pick_errors", "f_returns"} {
		if _, err := r.q.Exec(ctx, "TRUNCATE curated."+table); err != nil {
			return split, fmt.Errorf("curation.%s: truncate: %w", table, err)
		}
	}

	tag, err := r.q.Exec(ctx, keyedPicks+`
		INSERT INTO curated.f_order_picks (
			product_id, warehouse_section, origin, order_number, position_in_order,
			pick_volume, quantity_unit, pick_timestamp, pick_date,
			sk_order_id, sk_position_in_order)
		SELECT product_id, warehouse_section, origin, order_number, position_in_order,
		       pick_volume, quantity_unit, pick_timestamp, pick_date,
		       sk_order_id, sk_position_in_order
		FROM ranked
		WHERE pick_volume > 0`)
	if err != nil {
		return split, fmt.Errorf("curation.f_order_picks: insert: %w", err)
	}
	split.OrderPicks = tag.RowsAffected()

	tag, err = r.q.Exec(ctx, keyedPicks+`
		INSERT INTO curated.f_pick_errors (
			product_id, warehouse_section, origin, order_number, position_in_order,
			pick_volume, quantity_unit, pick_timestamp, pick_date,
			sk_order_id, sk_position_in_order)
		SELECT product_id, warehouse_section, origin, order_number, position_in_order,
		       pick_volume, quantity_unit, pick_timestamp, pick_date,
		       sk_order_id, sk_position_in_order
		FROM ranked
		WHERE pick_volume = 0`)
	if err != nil {
		return split, fmt.Errorf("curation.f_pick_errors: insert: %w", err)
	}
	split.PickErrors = tag.RowsAffected()

	tag, err = r.q.Exec(ctx, keyedPicks+`
		INSERT INTO curated.f_returns (
			product_id, warehouse_section, origin, order_number, position_in_order,
			return_volume, quantity_unit, return_timestamp, return_date,
			sk_order_id, sk_position_in_order)
		SELECT product_id, warehouse_section, origin, order_number, position_in_order,
		       -pick_volume, quantity_unit, pick_timestamp, pick_date,
		       sk_order_id, sk_position_in_order
		FROM ranked
		WHERE pick_volume < 0`)
	if err != nil {
		return split, fmt.Errorf("curation.f_returns: insert: %w", err)
	}
	split.Returns = tag.RowsAffected()

	return split, nil
}
