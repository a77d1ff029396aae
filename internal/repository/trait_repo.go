package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"team-pulse/internal/domain"
)

type TraitRepository interface {
	// Insert agrega una observacion a la serie temporal del rasgo.
	Insert(ctx context.Context, trait domain.PersonalityTrait) error
	// Latest devuelve la ultima observacion de cada (framework, rasgo).
	Latest(ctx context.Context, profileID string) ([]domain.PersonalityTrait, error)
	History(ctx context.Context, profileID, framework, trait string, limit int) ([]domain.PersonalityTrait, error)
}

type PgTraitRepository struct {
	pool *pgxpool.Pool
}

func NewPgTraitRepository(pool *pgxpool.Pool) *PgTraitRepository {
	return &PgTraitRepository{pool: pool}
}

func (r *PgTraitRepository) Insert(ctx context.Context, t domain.PersonalityTrait) error {
	const query = `
		INSERT INTO personality_traits (id, profile_id, framework, trait, score, confidence, breakdown, observed_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	breakdown, err := json.Marshal(t.Breakdown)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query,
		t.ID, t.ProfileID, t.Framework, t.Trait, t.Score, t.Confidence, breakdown, t.ObservedAt, t.CreatedAt,
	)
	return err
}

func (r *PgTraitRepository) Latest(ctx context.Context, profileID string) ([]domain.PersonalityTrait, error) {
	const query = `
		SELECT DISTINCT ON (framework, trait)
			id, profile_id, framework, trait, score, confidence, breakdown, observed_at, created_at
		FROM personality_traits
		WHERE profile_id = $1
		ORDER BY framework, trait, observed_at DESC
	`
	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTraits(rows)
}

func (r *PgTraitRepository) History(ctx context.Context, profileID, framework, trait string, limit int) ([]domain.PersonalityTrait, error) {
	const query = `
		SELECT id, profile_id, framework, trait, score, confidence, breakdown, observed_at, created_at
		FROM personality_traits
		WHERE profile_id = $1 AND framework = $2 AND trait = $3
		ORDER BY observed_at DESC
		LIMIT $4
	`
	rows, err := r.pool.Query(ctx, query, profileID, framework, trait, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTraits(rows)
}

func scanTraits(rows pgx.Rows) ([]domain.PersonalityTrait, error) {
	var traits []domain.PersonalityTrait
	for rows.Next() {
		var t domain.PersonalityTrait
		var breakdown []byte
		if err := rows.Scan(
			&t.ID, &t.ProfileID, &t.Framework, &t.Trait, &t.Score, &t.Confidence,
			&breakdown, &t.ObservedAt, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &t.Breakdown); err != nil {
				return nil, err
			}
		}
		traits = append(traits, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return traits, nil
}
