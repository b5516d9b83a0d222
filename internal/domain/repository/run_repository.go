package repository

import (
	"context"

	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
)

// RunRepository persists pipeline run bookkeeping.
type RunRepository interface {
	Create(ctx context.Context, run *entity.PipelineRun) error
	// Finish updates status, counts, finished_at and error text of a run.
	Finish(ctx context.Context, run *entity.PipelineRun) error
	GetByID(ctx context.Context, id string) (*entity.PipelineRun, error)
	ListRecent(ctx context.Context, limit int) ([]entity.PipelineRun, error)
}
