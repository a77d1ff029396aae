package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ErasureRepository interface {
	// EraseUser borra en cascada todo rastro de un usuario (derecho al
	// olvido): ventanas, outputs, rasgos, perfiles, cultura y scores, en una
	// sola transaccion.
	EraseUser(ctx context.Context, userID string) error
}

type PgErasureRepository struct {
	pool *pgxpool.Pool
}

func NewPgErasureRepository(pool *pgxpool.Pool) *PgErasureRepository {
	return &PgErasureRepository{pool: pool}
}

func (r *PgErasureRepository) EraseUser(ctx context.Context, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM aggregation_windows WHERE user_id = $1`,
		`DELETE FROM model_outputs WHERE profile_id IN (SELECT id FROM personality_profiles WHERE user_id = $1)`,
		`DELETE FROM personality_traits WHERE profile_id IN (SELECT id FROM personality_profiles WHERE user_id = $1)`,
		`DELETE FROM cultural_profiles WHERE profile_id IN (SELECT id FROM personality_profiles WHERE user_id = $1)`,
		`DELETE FROM performance_scores WHERE user_id = $1`,
		`DELETE FROM personality_profiles WHERE user_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, userID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
