package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
	"github.com/Appy-Anand/obeta-project/internal/domain/repository"
)

var _ repository.RunRepository = (*RunRepo)(nil)

// RunRepo persists pipeline run bookkeeping. Row counts and anomalies are
// stored as JSONB maps; pgx encodes map[string]int64 natively.
type RunRepo struct {
	pool *pgxpool.Pool
}

// NewRunRepository builds the run bookkeeping adapter.
func NewRunRepository(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

// Create inserts a freshly started run.
func (r *RunRepo) Create(ctx context.Context, run *entity.PipelineRun) error {
	const query = `
	INSERT INTO pipeline_runs (id, phase, status, row_counts, anomalies, started_at, error_text)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		run.ID, run.Phase, run.Status,
		emptyIfNil(run.RowCounts), emptyIfNil(run.Anomalies),
		run.StartedAt, run.Error)
	if err != nil {
		return fmt.Errorf("runs.Create: %w", err)
	}
	return nil
}

// Finish records the outcome of a run.
func (r *RunRepo) Finish(ctx context.Context, run *entity.PipelineRun) error {
	const query = `
	UPDATE pipeline_runs
	SET status = $2, row_counts = $3, anomalies = $4, finished_at = $5, error_text = $6
	WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		run.ID, run.Status,
		emptyIfNil(run.RowCounts), emptyIfNil(run.Anomalies),
		run.FinishedAt, run.Error)
	if err != nil {
		return fmt.Errorf("runs.Finish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches one run.
func (r *RunRepo) GetByID(ctx context.Context, id string) (*entity.PipelineRun, error) {
	const query = `
	SELECT id, phase, status, row_counts, anomalies, started_at, finished_at, error_text
	FROM pipeline_runs
	WHERE id = $1`

	var run entity.PipelineRun
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.Phase, &run.Status, &run.RowCounts, &run.Anomalies,
		&run.StartedAt, &run.FinishedAt, &run.Error)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("runs.GetByID: %w", err)
	}
	return &run, nil
}

// ListRecent returns the latest runs, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]entity.PipelineRun, error) {
	const query = `
	SELECT id, phase, status, row_counts, anomalies, started_at, finished_at, error_text
	FROM pipeline_runs
	ORDER BY started_at DESC
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("runs.ListRecent: %w", err)
	}
	defer rows.Close()

	var runs []entity.PipelineRun
	for rows.Next() {
		var run entity.PipelineRun
		if err := rows.Scan(
			&run.ID, &run.Phase, &run.Status, &run.RowCounts, &run.Anomalies,
			&run.StartedAt, &run.FinishedAt, &run.Error,
		); err != nil {
			return nil, fmt.Errorf("runs.ListRecent scan: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func emptyIfNil(m map[string]int64) map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return m
}
