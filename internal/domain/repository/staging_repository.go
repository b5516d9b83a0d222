package repository

import (
	"context"

	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
)

// StagingRepository loads parsed source datasets into the staging schema.
// Every Replace* is a full reload: truncate, then bulk-insert. Re-running a
// staging phase is therefore idempotent.
type StagingRepository interface {
	ReplacePicks(ctx context.Context, picks []entity.Pick) (int64, error)
	ReplaceProducts(ctx context.Context, products []entity.Product) (int64, error)
	ReplaceWarehouseSections(ctx context.Context, sections []entity.WarehouseSection) (int64, error)
}
