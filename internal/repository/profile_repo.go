package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"team-pulse/internal/domain"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile domain.PersonalityProfile) error
	GetByID(ctx context.Context, id string) (domain.PersonalityProfile, error)
	GetByUserOrg(ctx context.Context, userID, orgID string) (domain.PersonalityProfile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) Upsert(ctx context.Context, p domain.PersonalityProfile) error {
	const query = `
		INSERT INTO personality_profiles (
			id, user_id, organization_id, overall_confidence, conversations_analyzed,
			messages_analyzed, consent_granted, degraded, last_run_id, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (user_id, organization_id)
		DO UPDATE SET
			overall_confidence = EXCLUDED.overall_confidence,
			conversations_analyzed = EXCLUDED.conversations_analyzed,
			messages_analyzed = EXCLUDED.messages_analyzed,
			consent_granted = EXCLUDED.consent_granted,
			degraded = EXCLUDED.degraded,
			last_run_id = EXCLUDED.last_run_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.OrganizationID, p.OverallConfidence, p.ConversationsAnalyzed,
		p.MessagesAnalyzed, p.ConsentGranted, p.Degraded, p.LastRunID, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

const profileColumns = `
	id, user_id, organization_id, overall_confidence, conversations_analyzed,
	messages_analyzed, consent_granted, degraded, last_run_id, created_at, updated_at
`

func (r *PgProfileRepository) GetByID(ctx context.Context, id string) (domain.PersonalityProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM personality_profiles WHERE id = $1`
	var p domain.PersonalityProfile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.OrganizationID, &p.OverallConfidence, &p.ConversationsAnalyzed,
		&p.MessagesAnalyzed, &p.ConsentGranted, &p.Degraded, &p.LastRunID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PgProfileRepository) GetByUserOrg(ctx context.Context, userID, orgID string) (domain.PersonalityProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM personality_profiles WHERE user_id = $1 AND organization_id = $2`
	var p domain.PersonalityProfile
	err := r.pool.QueryRow(ctx, query, userID, orgID).Scan(
		&p.ID, &p.UserID, &p.OrganizationID, &p.OverallConfidence, &p.ConversationsAnalyzed,
		&p.MessagesAnalyzed, &p.ConsentGranted, &p.Degraded, &p.LastRunID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
