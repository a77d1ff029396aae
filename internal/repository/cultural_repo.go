package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"team-pulse/internal/domain"
)

type CulturalRepository interface {
	// Upsert conserva el baseline original: solo ajustes, blend y confianza
	// mutan con mas datos.
	Upsert(ctx context.Context, profile domain.CulturalProfile) error
	GetByProfile(ctx context.Context, profileID string) (domain.CulturalProfile, error)
}

type PgCulturalRepository struct {
	pool *pgxpool.Pool
}

func NewPgCulturalRepository(pool *pgxpool.Pool) *PgCulturalRepository {
	return &PgCulturalRepository{pool: pool}
}

func (r *PgCulturalRepository) Upsert(ctx context.Context, p domain.CulturalProfile) error {
	const query = `
		INSERT INTO cultural_profiles (
			id, profile_id, country_code, baseline, adjusted, blended,
			confidence, conversations_analyzed, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (profile_id)
		DO UPDATE SET
			adjusted = EXCLUDED.adjusted,
			blended = EXCLUDED.blended,
			confidence = EXCLUDED.confidence,
			conversations_analyzed = EXCLUDED.conversations_analyzed,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.ProfileID, p.CountryCode,
		pgvector.NewVector(p.Baseline.Vector()),
		pgvector.NewVector(p.Adjusted.Vector()),
		pgvector.NewVector(p.Blended.Vector()),
		p.Confidence, p.ConversationsAnalyzed, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *PgCulturalRepository) GetByProfile(ctx context.Context, profileID string) (domain.CulturalProfile, error) {
	const query = `
		SELECT id, profile_id, country_code, baseline, adjusted, blended,
			confidence, conversations_analyzed, created_at, updated_at
		FROM cultural_profiles
		WHERE profile_id = $1
	`
	var p domain.CulturalProfile
	var baseline, adjusted, blended pgvector.Vector
	err := r.pool.QueryRow(ctx, query, profileID).Scan(
		&p.ID, &p.ProfileID, &p.CountryCode, &baseline, &adjusted, &blended,
		&p.Confidence, &p.ConversationsAnalyzed, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.CulturalProfile{}, err
	}
	p.Baseline = domain.DimensionsFromVector(baseline.Slice())
	p.Adjusted = domain.DimensionsFromVector(adjusted.Slice())
	p.Blended = domain.DimensionsFromVector(blended.Slice())
	return p, nil
}
