package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

var _ repository.StagingRepository = (*StagingRepo)(nil)

// StagingRepo bulk-loads parsed source datasets. Each Replace* runs truncate
// plus CopyFrom in one transaction, so a failed load leaves the previous
// staging content intact.
type StagingRepo struct {
	pool *pgxpool.Pool
}

// NewStagingRepository builds the staging adapter.
func NewStagingRepository(pool *pgxpool.Pool) *StagingRepo {
	return &StagingRepo{pool: pool}
}

// ReplacePicks reloads staging.pick_data.
func (r *StagingRepo) ReplacePicks(ctx context.Context, picks []entity.Pick) (int64, error) {
	columns := []string{
		"product_id", "warehouse_section", "origin", "order_number",
		"position_in_order", "pick_volume", "quantity_unit", "pick_timestamp", "pick_date",
	}
	return r.replace(ctx, "pick_data", columns, pgx.CopyFromSlice(len(picks), func(i int) ([]any, error) {
		p := picks[i]
		return []any{
			p.ProductID, p.WarehouseSection, p.Origin, p.OrderNumber,
			p.PositionInOrder, p.PickVolume, p.QuantityUnit, p.PickTimestamp, p.PickDate,
		}, nil
	}))
}

// ReplaceProducts reloads staging.product_details.
func (r *StagingRepo) ReplaceProducts(ctx context.Context, products []entity.Product) (int64, error) {
	columns := []string{"product_id", "description", "product_group"}
	return r.replace(ctx, "product_details", columns, pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
		p := products[i]
		return []any{p.ID, p.Description, p.Group}, nil
	}))
}

// ReplaceWarehouseSections reloads staging.warehouse_sections.
func (r *StagingRepo) ReplaceWarehouseSections(ctx context.Context, sections []entity.WarehouseSection) (int64, error) {
	columns := []string{"abbreviation", "description", "section_group", "pick_reference"}
	return r.replace(ctx, "warehouse_sections", columns, pgx.CopyFromSlice(len(sections), func(i int) ([]any, error) {
		s := sections[i]
		return []any{s.Abbreviation, s.Description, s.Group, s.PickReference}, nil
	}))
}

func (r *StagingRepo) replace(ctx context.Context, table string, columns []string, src pgx.CopyFromSource) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("staging.%s: begin: %w", table, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE staging.%s", table)); err != nil {
		return 0, fmt.Errorf("staging.%s: truncate: %w", table, err)
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"staging", table}, columns, src)
	if err != nil {
		return 0, fmt.Errorf("staging.%s: copy: %w", table, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("staging.%s: commit: %w", table, err)
	}
	return n, nil
}
