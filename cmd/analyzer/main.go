package main

import (
	"context"
	"flag"
	"log"
	"time"

	"team-pulse/internal/aggregate"
	"team-pulse/internal/config"
	"team-pulse/internal/cultural"
	"team-pulse/internal/db"
	"team-pulse/internal/domain"
	"team-pulse/internal/fusion"
	"team-pulse/internal/orchestrator"
	"team-pulse/internal/repository"
	"team-pulse/internal/suggest"
	"team-pulse/internal/validator"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// analyzer corre una pasada batch completa y termina. Pensado para cron
// externo o ejecucion manual durante backfills.
func main() {
	rollup := flag.Bool("rollup", false, "compactar ventanas antiguas despues de la corrida")
	timeout := flag.Duration("timeout", 2*time.Hour, "tiempo maximo de la corrida")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	windowRepo := repository.NewPgWindowRepository(pool)
	metricRepo := repository.NewPgMetricRepository(pool)
	orgRepo := repository.NewPgOrganizationRepository(pool)
	store := aggregate.NewStore(windowRepo, cfg.WindowDays, logger)

	var provider validator.Provider = validator.NewMockProvider()
	if cfg.LLMAPIKey != "" {
		provider = validator.NewHTTPProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	}
	tier2 := validator.NewValidator(
		provider,
		validator.Triggers{
			ConfidenceThreshold: cfg.Tier2ConfidenceThreshold,
			ConflictGap:         cfg.Tier2ConflictGap,
			ConflictMinConf:     cfg.Tier2ConflictMinConf,
			SamplePercent:       cfg.Tier2SamplePercent,
		},
		cfg.ValidatorRateRPS,
		time.Duration(cfg.ValidatorTimeoutSeconds)*time.Second,
		cfg.ValidatorMaxRetries,
		logger,
	)

	analysisSvc := orchestrator.NewAnalysisService(
		repository.NewPgProfileRepository(pool),
		repository.NewPgTraitRepository(pool),
		repository.NewPgOutputRepository(pool),
		repository.NewPgCulturalRepository(pool),
		store,
		fusion.NewEngine(fusion.Weights{
			domain.ModelTier1Keyword:    cfg.FusionWeightKeyword,
			domain.ModelTier1Sentiment:  cfg.FusionWeightSentiment,
			domain.ModelTier1Behavioral: cfg.FusionWeightBehavioral,
			domain.ModelTier2LLM:        cfg.FusionWeightLLM,
		}),
		tier2,
		cultural.NewEngine(cfg.DefaultCountryCode, cfg.CulturalFullConfidenceConversations, logger),
		cfg.MinConversationsAnalysis,
		logger,
	)
	orch := orchestrator.NewOrchestrator(
		repository.NewPgRunRepository(pool),
		repository.NewPgUserRepository(pool),
		orgRepo,
		analysisSvc,
		cfg.WorkerPoolSize,
		logger,
	)

	run, err := orch.RunOnce(ctx, domain.RunTypeManual)
	if err != nil {
		logger.Fatal("run failed",
			zap.String("run_id", run.ID),
			zap.Int("processed", run.UsersProcessed),
			zap.Error(err))
	}
	logger.Info("run completed",
		zap.String("run_id", run.ID),
		zap.Int("processed", run.UsersProcessed),
		zap.Int("skipped", run.UsersSkipped),
		zap.Int("failed", run.UsersFailed),
		zap.Int("token_cost", run.TokenCost))

	scorer := suggest.NewScorer(windowRepo, metricRepo, logger)
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -cfg.WindowDays)
	orgIDs, err := orgRepo.ListIDs(ctx)
	if err != nil {
		logger.Error("list organizations for scoring failed", zap.Error(err))
	}
	for _, orgID := range orgIDs {
		if written, err := scorer.ComputeScores(ctx, orgID, from, to); err != nil {
			logger.Error("performance scoring failed", zap.String("org_id", orgID), zap.Error(err))
		} else if written > 0 {
			logger.Info("performance scores written", zap.String("org_id", orgID), zap.Int("scores", written))
		}
	}

	if *rollup {
		horizon := time.Now().UTC().AddDate(0, 0, -cfg.RollupAfterDays)
		compacted, err := store.RollupBefore(ctx, horizon)
		if err != nil {
			logger.Fatal("rollup failed", zap.Error(err))
		}
		logger.Info("rollup done", zap.Int("compacted", compacted))
	}
}
