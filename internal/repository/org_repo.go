package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"team-pulse/internal/domain"
)

type OrganizationRepository interface {
	Get(ctx context.Context, id string) (domain.OrganizationProfile, error)
	ListIDs(ctx context.Context) ([]string, error)
	// FindCohort selecciona organizaciones comparables: misma industria y
	// headcount dentro de la banda configurada, excluyendo la organizacion
	// objetivo.
	FindCohort(ctx context.Context, industry string, minEmployees, maxEmployees int, excludeID string) ([]domain.OrganizationProfile, error)
}

type PgOrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewPgOrganizationRepository(pool *pgxpool.Pool) *PgOrganizationRepository {
	return &PgOrganizationRepository{pool: pool}
}

const orgColumns = `
	id, name, industry, employee_count, tracked_metric_ids,
	revenue_growth, retention, satisfaction
`

func (r *PgOrganizationRepository) Get(ctx context.Context, id string) (domain.OrganizationProfile, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanOrg(row)
}

func (r *PgOrganizationRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM organizations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgOrganizationRepository) FindCohort(ctx context.Context, industry string, minEmployees, maxEmployees int, excludeID string) ([]domain.OrganizationProfile, error) {
	query := `SELECT ` + orgColumns + `
		FROM organizations
		WHERE industry = $1 AND employee_count BETWEEN $2 AND $3 AND id <> $4
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, industry, minEmployees, maxEmployees, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.OrganizationProfile
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func scanOrg(row pgx.Row) (domain.OrganizationProfile, error) {
	var org domain.OrganizationProfile
	err := row.Scan(
		&org.ID, &org.Name, &org.Industry, &org.EmployeeCount, &org.TrackedMetricIDs,
		&org.RevenueGrowth, &org.Retention, &org.Satisfaction,
	)
	return org, err
}
