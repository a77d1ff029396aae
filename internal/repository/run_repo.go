package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"team-pulse/internal/domain"
)

type RunRepository interface {
	Create(ctx context.Context, run domain.AnalysisRun) error
	// Update solo avanza corridas no terminales: completed/failed nunca se
	// reabren.
	Update(ctx context.Context, run domain.AnalysisRun) error
	Get(ctx context.Context, id string) (domain.AnalysisRun, error)
}

type PgRunRepository struct {
	pool *pgxpool.Pool
}

func NewPgRunRepository(pool *pgxpool.Pool) *PgRunRepository {
	return &PgRunRepository{pool: pool}
}

func (r *PgRunRepository) Create(ctx context.Context, run domain.AnalysisRun) error {
	const query = `
		INSERT INTO analysis_runs (id, run_type, status, users_processed, users_skipped, users_failed,
			models_used, token_cost, error_message, started_at, finished_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID, run.RunType, run.Status, run.UsersProcessed, run.UsersSkipped, run.UsersFailed,
		run.ModelsUsed, run.TokenCost, run.ErrorMessage, run.StartedAt, run.FinishedAt, run.CreatedAt,
	)
	return err
}

func (r *PgRunRepository) Update(ctx context.Context, run domain.AnalysisRun) error {
	const query = `
		UPDATE analysis_runs SET
			status = $2,
			users_processed = $3,
			users_skipped = $4,
			users_failed = $5,
			models_used = $6,
			token_cost = $7,
			error_message = $8,
			started_at = $9,
			finished_at = $10
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID, run.Status, run.UsersProcessed, run.UsersSkipped, run.UsersFailed,
		run.ModelsUsed, run.TokenCost, run.ErrorMessage, run.StartedAt, run.FinishedAt,
	)
	return err
}

func (r *PgRunRepository) Get(ctx context.Context, id string) (domain.AnalysisRun, error) {
	const query = `
		SELECT id, run_type, status, users_processed, users_skipped, users_failed,
			models_used, token_cost, error_message, started_at, finished_at, created_at
		FROM analysis_runs
		WHERE id = $1
	`
	var run domain.AnalysisRun
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.RunType, &run.Status, &run.UsersProcessed, &run.UsersSkipped, &run.UsersFailed,
		&run.ModelsUsed, &run.TokenCost, &run.ErrorMessage, &run.StartedAt, &run.FinishedAt, &run.CreatedAt,
	)
	return run, err
}
