package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"team-pulse/internal/domain"
)

type MetricRepository interface {
	ListByOrganization(ctx context.Context, orgID string) ([]domain.MetricDefinition, error)
	// CohortObservations devuelve el valor promedio historico por
	// (organizacion, metrica) dentro del cohort.
	CohortObservations(ctx context.Context, orgIDs []string) ([]domain.BenchmarkObservation, error)
	InsertScore(ctx context.Context, score domain.PerformanceScore) error
}

type PgMetricRepository struct {
	pool *pgxpool.Pool
}

func NewPgMetricRepository(pool *pgxpool.Pool) *PgMetricRepository {
	return &PgMetricRepository{pool: pool}
}

func (r *PgMetricRepository) ListByOrganization(ctx context.Context, orgID string) ([]domain.MetricDefinition, error) {
	const query = `
		SELECT id, organization_id, name, formula, ai_suggested, confidence, target_value, created_at, updated_at
		FROM metric_definitions
		WHERE organization_id = $1
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMetrics(rows)
}

func (r *PgMetricRepository) CohortObservations(ctx context.Context, orgIDs []string) ([]domain.BenchmarkObservation, error) {
	const query = `
		SELECT organization_id, metric_name, AVG(value)
		FROM metric_observations
		WHERE organization_id = ANY($1)
		GROUP BY organization_id, metric_name
		ORDER BY metric_name, organization_id
	`
	rows, err := r.pool.Query(ctx, query, orgIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []domain.BenchmarkObservation
	for rows.Next() {
		var o domain.BenchmarkObservation
		if err := rows.Scan(&o.OrganizationID, &o.MetricName, &o.Value); err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

func (r *PgMetricRepository) InsertScore(ctx context.Context, s domain.PerformanceScore) error {
	const query = `
		INSERT INTO performance_scores (id, metric_id, user_id, period_start, period_end, score, target_met, data_points, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.MetricID, s.UserID, s.PeriodStart, s.PeriodEnd, s.Score, s.TargetMet, s.DataPoints, s.CreatedAt,
	)
	return err
}

func scanMetrics(rows pgx.Rows) ([]domain.MetricDefinition, error) {
	var metrics []domain.MetricDefinition
	for rows.Next() {
		var m domain.MetricDefinition
		var formula []byte
		if err := rows.Scan(
			&m.ID, &m.OrganizationID, &m.Name, &formula, &m.AISuggested,
			&m.Confidence, &m.TargetValue, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(formula) > 0 {
			if err := json.Unmarshal(formula, &m.Formula); err != nil {
				return nil, err
			}
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return metrics, nil
}
