package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuracion del servicio. Todos los pesos y umbrales
// del pipeline son configurables para recalibrar sin cambio de codigo.
type Config struct {
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	// Pool de conexiones Postgres.
	DBMaxConns            int `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int `env:"DB_MIN_CONNS" envDefault:"1"`
	DBConnLifetimeMinutes int `env:"DB_CONN_LIFETIME_MINUTES" envDefault:"30"`
	DBConnIdleMinutes     int `env:"DB_CONN_IDLE_MINUTES" envDefault:"5"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Proveedor externo de validacion tier-2.
	LLMAPIKey               string  `env:"LLM_API_KEY"`
	LLMBaseURL              string  `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel                string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	ValidatorTimeoutSeconds int     `env:"VALIDATOR_TIMEOUT_SECONDS" envDefault:"30"`
	ValidatorMaxRetries     int     `env:"VALIDATOR_MAX_RETRIES" envDefault:"3"`
	ValidatorRateRPS        float64 `env:"VALIDATOR_RATE_RPS" envDefault:"2"`

	// Disparadores de validacion selectiva.
	Tier2ConfidenceThreshold int `env:"TIER2_CONFIDENCE_THRESHOLD" envDefault:"70"`
	Tier2ConflictGap         int `env:"TIER2_CONFLICT_GAP" envDefault:"40"`
	Tier2ConflictMinConf     int `env:"TIER2_CONFLICT_MIN_CONFIDENCE" envDefault:"60"`
	Tier2SamplePercent       int `env:"TIER2_SAMPLE_PERCENT" envDefault:"10"`

	// Pesos base de la fusion por consenso.
	FusionWeightKeyword    float64 `env:"FUSION_WEIGHT_KEYWORD" envDefault:"0.25"`
	FusionWeightSentiment  float64 `env:"FUSION_WEIGHT_SENTIMENT" envDefault:"0.25"`
	FusionWeightBehavioral float64 `env:"FUSION_WEIGHT_BEHAVIORAL" envDefault:"0.30"`
	FusionWeightLLM        float64 `env:"FUSION_WEIGHT_LLM" envDefault:"0.20"`

	// Ventanas de agregacion y rollups.
	WindowDays      int `env:"WINDOW_DAYS" envDefault:"7"`
	RollupAfterDays int `env:"ROLLUP_AFTER_DAYS" envDefault:"90"`

	// Adaptacion cultural.
	CulturalFullConfidenceConversations int    `env:"CULTURAL_FULL_CONFIDENCE_CONVERSATIONS" envDefault:"50"`
	DefaultCountryCode                  string `env:"DEFAULT_COUNTRY_CODE" envDefault:"US"`

	// Sugerencia de metricas.
	CohortSizeBand           float64 `env:"COHORT_SIZE_BAND" envDefault:"2.0"`
	CohortMinSamples         int     `env:"COHORT_MIN_SAMPLES" envDefault:"3"`
	SuggestionLimit          int     `env:"SUGGESTION_LIMIT" envDefault:"10"`
	BenchmarkCacheTTLMinutes int     `env:"BENCHMARK_CACHE_TTL_MINUTES" envDefault:"60"`

	// Orquestacion batch.
	WorkerPoolSize           int    `env:"WORKER_POOL_SIZE" envDefault:"8"`
	MinConversationsAnalysis int    `env:"MIN_CONVERSATIONS_ANALYSIS" envDefault:"3"`
	RunSchedule              string `env:"RUN_SCHEDULE" envDefault:"@weekly"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
