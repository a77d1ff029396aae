package domain

import "time"

// Tipos de agregacion soportados por las formulas declarativas.
const (
	AggregationSum   = "sum"
	AggregationAvg   = "avg"
	AggregationCount = "count"
)

// Fuentes de datos que una formula puede referenciar.
const (
	MetricSourceMessages     = "messages"
	MetricSourceInitiations  = "initiations"
	MetricSourceQuestions    = "questions"
	MetricSourceResponseTime = "response_time"
	MetricSourcePositivity   = "positivity"
)

// OrganizationProfile refleja el lookup externo de organizacion junto con los
// indicadores de exito usados en el benchmarking.
type OrganizationProfile struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Industry         string   `json:"industry"`
	EmployeeCount    int      `json:"employee_count"`
	TrackedMetricIDs []string `json:"tracked_metric_ids"`

	RevenueGrowth float64 `json:"revenue_growth"`
	Retention     float64 `json:"retention"`
	Satisfaction  float64 `json:"satisfaction"`
}

// MetricFormula es declarativa: fuente + filtro + agregacion. Nunca contiene
// codigo ejecutable.
type MetricFormula struct {
	Source        string `json:"source"`
	ChannelFilter string `json:"channel_filter,omitempty"`
	Aggregation   string `json:"aggregation"`
}

// MetricDefinition describe una metrica de desempeno rastreable.
type MetricDefinition struct {
	ID             string        `json:"id"`
	OrganizationID string        `json:"organization_id"`
	Name           string        `json:"name"`
	Formula        MetricFormula `json:"formula"`
	AISuggested    bool          `json:"ai_suggested"`
	Confidence     *float64      `json:"confidence,omitempty"`
	TargetValue    *float64      `json:"target_value,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// PerformanceScore es el valor calculado de una metrica para un usuario y
// periodo. Las filas son append-only y se recalculan por periodo.
type PerformanceScore struct {
	ID          string    `json:"id"`
	MetricID    string    `json:"metric_id"`
	UserID      string    `json:"user_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Score       float64   `json:"score"`
	TargetMet   bool      `json:"target_met"`
	DataPoints  int       `json:"data_points"`
	CreatedAt   time.Time `json:"created_at"`
}

// BenchmarkObservation es el valor promedio historico de una metrica en una
// organizacion del cohort.
type BenchmarkObservation struct {
	OrganizationID string  `json:"organization_id"`
	MetricName     string  `json:"metric_name"`
	Value          float64 `json:"value"`
}

// MetricSuggestion es una candidata rankeada por el motor de sugerencias.
type MetricSuggestion struct {
	Metric                  MetricDefinition `json:"metric"`
	OverallCorrelation      float64          `json:"overall_correlation"`
	RevenueCorrelation      float64          `json:"revenue_correlation"`
	RetentionCorrelation    float64          `json:"retention_correlation"`
	SatisfactionCorrelation float64          `json:"satisfaction_correlation"`
	AdoptionRate            float64          `json:"adoption_rate"`
	SampleSize              int              `json:"sample_size"`
	Rationale               string           `json:"rationale"`
}
