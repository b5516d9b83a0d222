package pipeline

import (
	"context"

	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

// SourceReader parses the three raw warehouse datasets.
type SourceReader interface {
	ReadPicks(ctx context.Context) ([]entity.Pick, entity.StagingAnomalies, error)
	ReadProducts(ctx context.Context) ([]entity.Product, error)
	ReadWarehouseSections(ctx context.Context) ([]entity.WarehouseSection, error)
}

// CurationTxRunner executes the curation phase atomically: every repository
// call inside fn commits or rolls back as one unit.
type CurationTxRunner interface {
	RunCuration(ctx context.Context, fn func(repo repository.CurationRepository) error) error
}

// MartExporter persists one mart artifact. file is the artifact file name,
// mart the logical mart it belongs to.
type MartExporter interface {
	WriteMart(mart, file string, header []string, records [][]string) error
}
