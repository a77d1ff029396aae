package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"team-pulse/internal/domain"
)

type UserRepository interface {
	Get(ctx context.Context, id string) (domain.UserAccount, error)
	// ListConsented devuelve solo usuarios con consentimiento: la seleccion de
	// poblacion ya es fail-closed antes de despachar trabajo.
	ListConsented(ctx context.Context, orgID string) ([]domain.UserAccount, error)
}

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Get(ctx context.Context, id string) (domain.UserAccount, error) {
	const query = `SELECT id, organization_id, country_code, consent_granted FROM users WHERE id = $1`
	var u domain.UserAccount
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.OrganizationID, &u.CountryCode, &u.ConsentGranted)
	return u, err
}

func (r *PgUserRepository) ListConsented(ctx context.Context, orgID string) ([]domain.UserAccount, error) {
	const query = `
		SELECT id, organization_id, country_code, consent_granted
		FROM users
		WHERE organization_id = $1 AND consent_granted = TRUE
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.UserAccount
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.CountryCode, &u.ConsentGranted); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
