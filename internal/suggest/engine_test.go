package suggest

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"team-pulse/internal/domain"
)

type mockOrgRepo struct {
	target      domain.OrganizationProfile
	cohort      []domain.OrganizationProfile
	cohortCalls int
}

func (m *mockOrgRepo) Get(_ context.Context, id string) (domain.OrganizationProfile, error) {
	if id != m.target.ID {
		return domain.OrganizationProfile{}, errors.New("org not found")
	}
	return m.target, nil
}

func (m *mockOrgRepo) ListIDs(context.Context) ([]string, error) {
	return []string{m.target.ID}, nil
}

func (m *mockOrgRepo) FindCohort(_ context.Context, _ string, _, _ int, _ string) ([]domain.OrganizationProfile, error) {
	m.cohortCalls++
	return m.cohort, nil
}

type mockMetricRepo struct {
	observations []domain.BenchmarkObservation
	tracked      []domain.MetricDefinition
	scores       []domain.PerformanceScore
}

func (m *mockMetricRepo) ListByOrganization(context.Context, string) ([]domain.MetricDefinition, error) {
	return m.tracked, nil
}

func (m *mockMetricRepo) CohortObservations(context.Context, []string) ([]domain.BenchmarkObservation, error) {
	return m.observations, nil
}

func (m *mockMetricRepo) InsertScore(_ context.Context, s domain.PerformanceScore) error {
	m.scores = append(m.scores, s)
	return nil
}

type memCache struct {
	entries map[string]*benchmarkSnapshot
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]*benchmarkSnapshot{}}
}

func (c *memCache) Get(_ context.Context, orgID string) (*benchmarkSnapshot, bool) {
	snap, ok := c.entries[orgID]
	return snap, ok
}

func (c *memCache) Set(_ context.Context, orgID string, snap *benchmarkSnapshot) {
	c.entries[orgID] = snap
}

func (c *memCache) Invalidate(_ context.Context, orgID string) error {
	delete(c.entries, orgID)
	return nil
}

// Seis organizaciones con indicadores crecientes: la mitad superior por
// indicador ponderado es org-4, org-5 y org-6.
func benchmarkFixture() (*mockOrgRepo, *mockMetricRepo) {
	orgs := &mockOrgRepo{
		target: domain.OrganizationProfile{ID: "org-t", Industry: "saas", EmployeeCount: 80},
		cohort: []domain.OrganizationProfile{
			{ID: "org-1", RevenueGrowth: 10, Retention: 82, Satisfaction: 71},
			{ID: "org-2", RevenueGrowth: 20, Retention: 84, Satisfaction: 72},
			{ID: "org-3", RevenueGrowth: 30, Retention: 86, Satisfaction: 73},
			{ID: "org-4", RevenueGrowth: 40, Retention: 88, Satisfaction: 74},
			{ID: "org-5", RevenueGrowth: 50, Retention: 90, Satisfaction: 75},
			{ID: "org-6", RevenueGrowth: 60, Retention: 92, Satisfaction: 76},
		},
	}
	metrics := &mockMetricRepo{
		observations: []domain.BenchmarkObservation{
			// Correlaciona perfecto con los tres indicadores.
			{OrganizationID: "org-1", MetricName: "deep_work_hours", Value: 1},
			{OrganizationID: "org-2", MetricName: "deep_work_hours", Value: 2},
			{OrganizationID: "org-3", MetricName: "deep_work_hours", Value: 3},
			{OrganizationID: "org-4", MetricName: "deep_work_hours", Value: 4},
			{OrganizationID: "org-5", MetricName: "deep_work_hours", Value: 5},
			{OrganizationID: "org-6", MetricName: "deep_work_hours", Value: 6},
			// Anticorrelaciona: debe rankear debajo.
			{OrganizationID: "org-4", MetricName: "meeting_hours", Value: 6},
			{OrganizationID: "org-5", MetricName: "meeting_hours", Value: 5},
			{OrganizationID: "org-6", MetricName: "meeting_hours", Value: 4},
			// Varianza cero: excluida del ranking, no tumba la pasada.
			{OrganizationID: "org-4", MetricName: "flat_metric", Value: 5},
			{OrganizationID: "org-5", MetricName: "flat_metric", Value: 5},
			{OrganizationID: "org-6", MetricName: "flat_metric", Value: 5},
			// Ya rastreada por la organizacion objetivo.
			{OrganizationID: "org-4", MetricName: "response_speed", Value: 1},
			{OrganizationID: "org-5", MetricName: "response_speed", Value: 2},
			{OrganizationID: "org-6", MetricName: "response_speed", Value: 3},
			// Solo la rastrea la mitad inferior del cohort.
			{OrganizationID: "org-1", MetricName: "overtime_hours", Value: 1},
			{OrganizationID: "org-2", MetricName: "overtime_hours", Value: 2},
			{OrganizationID: "org-3", MetricName: "overtime_hours", Value: 3},
		},
		tracked: []domain.MetricDefinition{{Name: "response_speed"}},
	}
	return orgs, metrics
}

func TestSuggestMetricsRanksByCorrelation(t *testing.T) {
	orgs, metrics := benchmarkFixture()
	engine := NewEngine(orgs, metrics, newMemCache(), DefaultParams(), zap.NewNop())

	suggestions, err := engine.SuggestMetrics(context.Background(), "org-t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 ranked suggestions, got %d", len(suggestions))
	}

	first, second := suggestions[0], suggestions[1]
	if first.Metric.Name != "deep_work_hours" || second.Metric.Name != "meeting_hours" {
		t.Fatalf("expected deep_work_hours ranked above meeting_hours, got %s then %s",
			first.Metric.Name, second.Metric.Name)
	}
	if math.Abs(first.OverallCorrelation-1.0) > 1e-9 {
		t.Fatalf("expected overall correlation 1.0 for perfect alignment, got %v", first.OverallCorrelation)
	}
	if second.OverallCorrelation >= first.OverallCorrelation {
		t.Fatalf("ranking must be descending: %v vs %v", first.OverallCorrelation, second.OverallCorrelation)
	}
	if first.AdoptionRate != 1.0 || first.SampleSize != 3 {
		t.Fatalf("expected full top-performer adoption, got rate %v size %d", first.AdoptionRate, first.SampleSize)
	}
	if !first.Metric.AISuggested || first.Rationale == "" {
		t.Fatalf("suggestion must be marked ai_suggested with a rationale")
	}

	for _, s := range suggestions {
		if s.Metric.Name == "response_speed" {
			t.Fatalf("already tracked metric must not be suggested")
		}
		if s.Metric.Name == "flat_metric" {
			t.Fatalf("degenerate series must be excluded from ranking")
		}
	}
}

// Las correlaciones se calculan solo contra la mitad superior del cohort por
// indicador ponderado de exito: una metrica que solo rastrean los rezagados
// no es una candidata, por fuerte que correlacione entre ellos.
func TestSuggestMetricsIgnoresBottomPerformerSignals(t *testing.T) {
	orgs, metrics := benchmarkFixture()
	engine := NewEngine(orgs, metrics, newMemCache(), DefaultParams(), zap.NewNop())

	suggestions, err := engine.SuggestMetrics(context.Background(), "org-t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range suggestions {
		if s.Metric.Name == "overtime_hours" {
			t.Fatalf("metric tracked only by bottom performers must not be suggested")
		}
	}
}

// La confianza de la sugerencia queda acotada a [0, 1] aunque la correlacion
// global sea negativa; la correlacion cruda se conserva para el ranking.
func TestSuggestMetricsConfidenceStaysInUnitRange(t *testing.T) {
	orgs, metrics := benchmarkFixture()
	engine := NewEngine(orgs, metrics, newMemCache(), DefaultParams(), zap.NewNop())

	suggestions, err := engine.SuggestMetrics(context.Background(), "org-t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range suggestions {
		if s.Metric.Confidence == nil {
			t.Fatalf("suggestion %s missing confidence", s.Metric.Name)
		}
		if c := *s.Metric.Confidence; c < 0 || c > 1 {
			t.Fatalf("confidence out of range for %s: %v", s.Metric.Name, c)
		}
	}

	for _, s := range suggestions {
		if s.Metric.Name != "meeting_hours" {
			continue
		}
		if math.Abs(s.OverallCorrelation+1.0) > 1e-9 {
			t.Fatalf("expected overall correlation -1 for inverse metric, got %v", s.OverallCorrelation)
		}
		if *s.Metric.Confidence != 0 {
			t.Fatalf("negative correlation must clamp confidence to 0, got %v", *s.Metric.Confidence)
		}
		return
	}
	t.Fatalf("expected meeting_hours among suggestions")
}

// Un cohort por debajo del minimo devuelve lista vacia, nunca error.
func TestSuggestMetricsSmallCohort(t *testing.T) {
	orgs, metrics := benchmarkFixture()
	orgs.cohort = orgs.cohort[:1]
	engine := NewEngine(orgs, metrics, newMemCache(), DefaultParams(), zap.NewNop())

	suggestions, err := engine.SuggestMetrics(context.Background(), "org-t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("expected no suggestions for cohort of 1, got %d", len(suggestions))
	}
}

// El snapshot se cachea por organizacion y la invalidacion explicita fuerza
// el recalculo contra la base.
func TestSuggestMetricsUsesCacheUntilInvalidated(t *testing.T) {
	orgs, metrics := benchmarkFixture()
	engine := NewEngine(orgs, metrics, newMemCache(), DefaultParams(), zap.NewNop())
	ctx := context.Background()

	if _, err := engine.SuggestMetrics(ctx, "org-t"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := engine.SuggestMetrics(ctx, "org-t"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orgs.cohortCalls != 1 {
		t.Fatalf("expected cohort computed once with warm cache, got %d calls", orgs.cohortCalls)
	}

	if err := engine.InvalidateCache(ctx, "org-t"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := engine.SuggestMetrics(ctx, "org-t"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orgs.cohortCalls != 2 {
		t.Fatalf("expected recompute after invalidation, got %d calls", orgs.cohortCalls)
	}
}

func TestPearson(t *testing.T) {
	r, err := pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(r-1.0) > 1e-9 {
		t.Fatalf("expected r=1 for proportional series, got %v", r)
	}

	r, err = pearson([]float64{1, 2, 3}, []float64{6, 4, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(r+1.0) > 1e-9 {
		t.Fatalf("expected r=-1 for inverse series, got %v", r)
	}

	if _, err := pearson([]float64{5, 5, 5}, []float64{1, 2, 3}); err == nil {
		t.Fatalf("expected error for zero-variance series")
	}
	if _, err := pearson([]float64{1}, []float64{2}); err == nil {
		t.Fatalf("expected error for too-short series")
	}
}
