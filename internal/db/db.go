package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"team-pulse/internal/config"
)

// poolConfig traduce la configuracion del servicio a un pgxpool.Config.
func poolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.DBMaxConns)
	}
	if cfg.DBMinConns > 0 {
		poolCfg.MinConns = int32(cfg.DBMinConns)
	}
	if cfg.DBConnLifetimeMinutes > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.DBConnLifetimeMinutes) * time.Minute
	}
	if cfg.DBConnIdleMinutes > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.DBConnIdleMinutes) * time.Minute
	}
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return poolCfg, nil
}

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}
