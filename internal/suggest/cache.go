package suggest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"team-pulse/internal/domain"
)

const benchmarkKeyPrefix = "benchmark:cohort:"

// indicatorSet son los indicadores de exito de una organizacion del cohort,
// capturados junto con las observaciones para correlacionar sin re-consultar.
type indicatorSet struct {
	RevenueGrowth float64 `json:"revenue_growth"`
	Retention     float64 `json:"retention"`
	Satisfaction  float64 `json:"satisfaction"`
}

// benchmarkSnapshot es lo que se cachea por organizacion objetivo: las
// observaciones de los top performers del cohort mas los indicadores de cada
// uno. CohortSize es la poblacion de benchmarking (los top performers).
type benchmarkSnapshot struct {
	Observations []domain.BenchmarkObservation `json:"observations"`
	Indicators   map[string]indicatorSet       `json:"indicators"`
	CohortSize   int                           `json:"cohort_size"`
	TrackedNames []string                      `json:"tracked_names"`
}

// BenchmarkCache cachea snapshots de benchmarking por organizacion objetivo.
// La invalidacion es explicita ademas del TTL: cambios upstream en metricas
// del cohort deben poder purgar de inmediato.
type BenchmarkCache interface {
	Get(ctx context.Context, orgID string) (*benchmarkSnapshot, bool)
	Set(ctx context.Context, orgID string, snap *benchmarkSnapshot)
	Invalidate(ctx context.Context, orgID string) error
}

// RedisBenchmarkCache implementa BenchmarkCache sobre redis. Errores de redis
// degradan a cache-miss: el motor recalcula contra la base.
type RedisBenchmarkCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisBenchmarkCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisBenchmarkCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisBenchmarkCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisBenchmarkCache) Get(ctx context.Context, orgID string) (*benchmarkSnapshot, bool) {
	raw, err := c.client.Get(ctx, benchmarkKeyPrefix+orgID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("benchmark cache read failed", zap.String("org_id", orgID), zap.Error(err))
		}
		return nil, false
	}
	var snap benchmarkSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger.Warn("benchmark cache corrupt entry", zap.String("org_id", orgID), zap.Error(err))
		return nil, false
	}
	return &snap, true
}

func (c *RedisBenchmarkCache) Set(ctx context.Context, orgID string, snap *benchmarkSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warn("benchmark cache marshal failed", zap.String("org_id", orgID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, benchmarkKeyPrefix+orgID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("benchmark cache write failed", zap.String("org_id", orgID), zap.Error(err))
	}
}

func (c *RedisBenchmarkCache) Invalidate(ctx context.Context, orgID string) error {
	return c.client.Del(ctx, benchmarkKeyPrefix+orgID).Err()
}

// NoopCache desactiva el cacheo cuando no hay redis configurado.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*benchmarkSnapshot, bool) { return nil, false }
func (NoopCache) Set(context.Context, string, *benchmarkSnapshot)        {}
func (NoopCache) Invalidate(context.Context, string) error               { return nil }
