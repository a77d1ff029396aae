package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"team-pulse/internal/domain"
)

type OutputRepository interface {
	// Insert persiste la prediccion de un modelo. Las filas son inmutables.
	Insert(ctx context.Context, output domain.ModelOutput) error
	ListByProfile(ctx context.Context, profileID string, limit int) ([]domain.ModelOutput, error)
}

type PgOutputRepository struct {
	pool *pgxpool.Pool
}

func NewPgOutputRepository(pool *pgxpool.Pool) *PgOutputRepository {
	return &PgOutputRepository{pool: pool}
}

func (r *PgOutputRepository) Insert(ctx context.Context, o domain.ModelOutput) error {
	const query = `
		INSERT INTO model_outputs (id, run_id, profile_id, model_type, trait_scores, confidence, token_cost, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	scores, err := json.Marshal(o.TraitScores)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query,
		o.ID, o.RunID, o.ProfileID, string(o.ModelType), scores, o.Confidence, o.TokenCost, o.CreatedAt,
	)
	return err
}

func (r *PgOutputRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]domain.ModelOutput, error) {
	const query = `
		SELECT id, run_id, profile_id, model_type, trait_scores, confidence, token_cost, created_at
		FROM model_outputs
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outputs []domain.ModelOutput
	for rows.Next() {
		var o domain.ModelOutput
		var modelType string
		var scores []byte
		if err := rows.Scan(&o.ID, &o.RunID, &o.ProfileID, &modelType, &scores, &o.Confidence, &o.TokenCost, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.ModelType = domain.ModelType(modelType)
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &o.TraitScores); err != nil {
				return nil, err
			}
		}
		outputs = append(outputs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return outputs, nil
}
