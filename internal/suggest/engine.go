package suggest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"team-pulse/internal/domain"
	"team-pulse/internal/repository"
)

// Pesos del puntaje global de correlacion por indicador de exito.
const (
	revenueWeight      = 0.5
	retentionWeight    = 0.3
	satisfactionWeight = 0.2
)

// Params calibra la seleccion de cohort y el ranking.
type Params struct {
	CohortSizeBand   float64
	CohortMinSamples int
	SuggestionLimit  int
}

func DefaultParams() Params {
	return Params{CohortSizeBand: 2.0, CohortMinSamples: 3, SuggestionLimit: 10}
}

// Engine sugiere metricas de desempeno: correlaciona las metricas que
// rastrean los mejores del cohort de organizaciones comparables contra sus
// indicadores de exito y rankea las que la organizacion objetivo todavia no
// rastrea.
type Engine struct {
	orgs    repository.OrganizationRepository
	metrics repository.MetricRepository
	cache   BenchmarkCache
	params  Params
	logger  *zap.Logger
}

func NewEngine(orgs repository.OrganizationRepository, metrics repository.MetricRepository, cache BenchmarkCache, params Params, logger *zap.Logger) *Engine {
	if cache == nil {
		cache = NoopCache{}
	}
	if params.CohortSizeBand <= 1 {
		params.CohortSizeBand = 2.0
	}
	if params.CohortMinSamples < 2 {
		params.CohortMinSamples = 2
	}
	if params.SuggestionLimit <= 0 {
		params.SuggestionLimit = 10
	}
	return &Engine{orgs: orgs, metrics: metrics, cache: cache, params: params, logger: logger}
}

// SuggestMetrics devuelve las metricas candidatas rankeadas para una
// organizacion. Un cohort insuficiente devuelve lista vacia, nunca error:
// la falta de pares comparables no es una falla del sistema.
func (e *Engine) SuggestMetrics(ctx context.Context, orgID string) ([]domain.MetricSuggestion, error) {
	target, err := e.orgs.Get(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("load target organization: %w", err)
	}

	snap, hit := e.cache.Get(ctx, orgID)
	if !hit {
		snap, err = e.buildSnapshot(ctx, target)
		if err != nil {
			return nil, err
		}
		e.cache.Set(ctx, orgID, snap)
	}

	if snap.CohortSize < e.params.CohortMinSamples {
		e.logger.Info("cohort too small for suggestions",
			zap.String("org_id", orgID),
			zap.Int("cohort_size", snap.CohortSize),
			zap.Int("min_samples", e.params.CohortMinSamples))
		return []domain.MetricSuggestion{}, nil
	}

	tracked := make(map[string]bool, len(snap.TrackedNames))
	for _, name := range snap.TrackedNames {
		tracked[name] = true
	}

	// Serie de valores por metrica, pareada con los indicadores de la
	// organizacion que la reporto. Solo entran observaciones de los top
	// performers del snapshot.
	byMetric := make(map[string][]domain.BenchmarkObservation)
	for _, obs := range snap.Observations {
		if _, ok := snap.Indicators[obs.OrganizationID]; !ok {
			continue
		}
		byMetric[obs.MetricName] = append(byMetric[obs.MetricName], obs)
	}

	suggestions := make([]domain.MetricSuggestion, 0, len(byMetric))
	for name, observations := range byMetric {
		if tracked[name] {
			continue
		}
		if len(observations) < e.params.CohortMinSamples {
			continue
		}

		s, err := e.correlate(target.ID, name, observations, snap)
		if err != nil {
			e.logger.Debug("metric excluded from ranking", zap.String("metric", name), zap.Error(err))
			continue
		}
		suggestions = append(suggestions, s)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].OverallCorrelation != suggestions[j].OverallCorrelation {
			return suggestions[i].OverallCorrelation > suggestions[j].OverallCorrelation
		}
		return suggestions[i].Metric.Name < suggestions[j].Metric.Name
	})
	if len(suggestions) > e.params.SuggestionLimit {
		suggestions = suggestions[:e.params.SuggestionLimit]
	}
	return suggestions, nil
}

// InvalidateCache purga el snapshot de benchmarking de una organizacion.
func (e *Engine) InvalidateCache(ctx context.Context, orgID string) error {
	return e.cache.Invalidate(ctx, orgID)
}

func (e *Engine) buildSnapshot(ctx context.Context, target domain.OrganizationProfile) (*benchmarkSnapshot, error) {
	minEmployees := int(math.Floor(float64(target.EmployeeCount) / e.params.CohortSizeBand))
	maxEmployees := int(math.Ceil(float64(target.EmployeeCount) * e.params.CohortSizeBand))

	cohort, err := e.orgs.FindCohort(ctx, target.Industry, minEmployees, maxEmployees, target.ID)
	if err != nil {
		return nil, fmt.Errorf("find cohort: %w", err)
	}
	// El benchmark se arma contra la mitad superior del cohort por indicador
	// ponderado de exito: las metricas candidatas salen de los que van bien.
	cohort = topPerformers(cohort)

	snap := &benchmarkSnapshot{
		Indicators: make(map[string]indicatorSet, len(cohort)),
		CohortSize: len(cohort),
	}
	if len(cohort) == 0 {
		return snap, nil
	}

	ids := make([]string, 0, len(cohort))
	for _, org := range cohort {
		ids = append(ids, org.ID)
		snap.Indicators[org.ID] = indicatorSet{
			RevenueGrowth: org.RevenueGrowth,
			Retention:     org.Retention,
			Satisfaction:  org.Satisfaction,
		}
	}

	snap.Observations, err = e.metrics.CohortObservations(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cohort observations: %w", err)
	}

	trackedDefs, err := e.metrics.ListByOrganization(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("load tracked metrics: %w", err)
	}
	for _, def := range trackedDefs {
		snap.TrackedNames = append(snap.TrackedNames, def.Name)
	}
	return snap, nil
}

// topPerformers ordena el cohort por su indicador ponderado de exito y
// devuelve la mitad superior (redondeando hacia arriba).
func topPerformers(cohort []domain.OrganizationProfile) []domain.OrganizationProfile {
	if len(cohort) <= 1 {
		return cohort
	}
	sorted := make([]domain.OrganizationProfile, len(cohort))
	copy(sorted, cohort)
	sort.Slice(sorted, func(i, j int) bool {
		si, sj := successScore(sorted[i]), successScore(sorted[j])
		if si != sj {
			return si > sj
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[:(len(sorted)+1)/2]
}

func successScore(org domain.OrganizationProfile) float64 {
	return revenueWeight*org.RevenueGrowth + retentionWeight*org.Retention + satisfactionWeight*org.Satisfaction
}

func (e *Engine) correlate(targetOrgID, name string, observations []domain.BenchmarkObservation, snap *benchmarkSnapshot) (domain.MetricSuggestion, error) {
	values := make([]float64, 0, len(observations))
	revenue := make([]float64, 0, len(observations))
	retention := make([]float64, 0, len(observations))
	satisfaction := make([]float64, 0, len(observations))
	for _, obs := range observations {
		ind, ok := snap.Indicators[obs.OrganizationID]
		if !ok {
			continue
		}
		values = append(values, obs.Value)
		revenue = append(revenue, ind.RevenueGrowth)
		retention = append(retention, ind.Retention)
		satisfaction = append(satisfaction, ind.Satisfaction)
	}

	rev, err := pearson(values, revenue)
	if err != nil {
		return domain.MetricSuggestion{}, &domain.CorrelationComputeError{MetricName: name, Reason: "revenue: " + err.Error()}
	}
	ret, err := pearson(values, retention)
	if err != nil {
		return domain.MetricSuggestion{}, &domain.CorrelationComputeError{MetricName: name, Reason: "retention: " + err.Error()}
	}
	sat, err := pearson(values, satisfaction)
	if err != nil {
		return domain.MetricSuggestion{}, &domain.CorrelationComputeError{MetricName: name, Reason: "satisfaction: " + err.Error()}
	}

	overall := revenueWeight*rev + retentionWeight*ret + satisfactionWeight*sat
	adoption := float64(len(values)) / float64(snap.CohortSize)
	// La confianza de la sugerencia vive en [0, 1]; una correlacion negativa
	// no la lleva por debajo de cero.
	confidence := math.Max(0, math.Min(1, overall))

	return domain.MetricSuggestion{
		Metric: domain.MetricDefinition{
			ID:             uuid.NewString(),
			OrganizationID: targetOrgID,
			Name:           name,
			AISuggested:    true,
			Confidence:     &confidence,
			CreatedAt:      time.Now().UTC(),
		},
		OverallCorrelation:      overall,
		RevenueCorrelation:      rev,
		RetentionCorrelation:    ret,
		SatisfactionCorrelation: sat,
		AdoptionRate:            adoption,
		SampleSize:              len(values),
		Rationale: fmt.Sprintf(
			"Tracked by %.0f%% of the cohort's %d top performers; correlation with revenue growth %.2f, retention %.2f, satisfaction %.2f.",
			adoption*100, snap.CohortSize, rev, ret, sat),
	}, nil
}
