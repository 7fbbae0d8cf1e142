package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/repository"
)

var _ repository.RunRepository = (*RunRepo)(nil)

// RunRepo persists transfer run records. Rows are audit data only; the
// engine treats every call here as best-effort.
type RunRepo struct {
	pool *pgxpool.Pool
}

func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

func (r *RunRepo) Create(ctx context.Context, run *model.TransferRun) error {
	const sql = `
INSERT INTO transfer_runs (id, job_id, requester_id, source, target, state, started_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, sql,
		run.ID, run.JobID, run.RequesterID, run.Source, run.Target, string(run.State), run.StartedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// already recorded
			return nil
		}
		return fmt.Errorf("postgres: creating transfer run: %w", err)
	}
	return nil
}

func (r *RunRepo) Finish(ctx context.Context, run *model.TransferRun) error {
	const sql = `
UPDATE transfer_runs
   SET state         = $2,
       total_scraped = $3,
       succeeded     = $4,
       skipped       = $5,
       failed        = $6,
       finished_at   = $7
 WHERE job_id = $1;
`
	_, err := r.pool.Exec(ctx, sql,
		run.JobID, string(run.State), run.TotalScraped, run.Succeeded, run.Skipped, run.Failed, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("postgres: finishing transfer run: %w", err)
	}
	return nil
}
