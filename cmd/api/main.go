package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"team-pulse/internal/aggregate"
	"team-pulse/internal/config"
	"team-pulse/internal/cultural"
	"team-pulse/internal/db"
	"team-pulse/internal/domain"
	"team-pulse/internal/fusion"
	apihttp "team-pulse/internal/http"
	"team-pulse/internal/orchestrator"
	"team-pulse/internal/repository"
	"team-pulse/internal/suggest"
	"team-pulse/internal/validator"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	windowRepo := repository.NewPgWindowRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	traitRepo := repository.NewPgTraitRepository(pool)
	outputRepo := repository.NewPgOutputRepository(pool)
	culturalRepo := repository.NewPgCulturalRepository(pool)
	runRepo := repository.NewPgRunRepository(pool)
	userRepo := repository.NewPgUserRepository(pool)
	orgRepo := repository.NewPgOrganizationRepository(pool)
	metricRepo := repository.NewPgMetricRepository(pool)
	erasureRepo := repository.NewPgErasureRepository(pool)

	store := aggregate.NewStore(windowRepo, cfg.WindowDays, logger)

	fusionEngine := fusion.NewEngine(fusion.Weights{
		domain.ModelTier1Keyword:    cfg.FusionWeightKeyword,
		domain.ModelTier1Sentiment:  cfg.FusionWeightSentiment,
		domain.ModelTier1Behavioral: cfg.FusionWeightBehavioral,
		domain.ModelTier2LLM:        cfg.FusionWeightLLM,
	})

	var provider validator.Provider = validator.NewMockProvider()
	if cfg.LLMAPIKey != "" {
		provider = validator.NewHTTPProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	} else {
		logger.Warn("llm api key not configured, tier-2 validation uses mock provider")
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

	culturalEngine := cultural.NewEngine(cfg.DefaultCountryCode, cfg.CulturalFullConfidenceConversations, logger)

	var benchmarkCache suggest.BenchmarkCache = suggest.NoopCache{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, benchmark cache disabled", zap.Error(err))
		} else {
			benchmarkCache = suggest.NewRedisBenchmarkCache(
				redisClient,
				time.Duration(cfg.BenchmarkCacheTTLMinutes)*time.Minute,
				logger,
			)
		}
		cancel()
	}
	suggestEngine := suggest.NewEngine(orgRepo, metricRepo, benchmarkCache, suggest.Params{
		CohortSizeBand:   cfg.CohortSizeBand,
		CohortMinSamples: cfg.CohortMinSamples,
		SuggestionLimit:  cfg.SuggestionLimit,
	}, logger)
	scorer := suggest.NewScorer(windowRepo, metricRepo, logger)

	analysisSvc := orchestrator.NewAnalysisService(
		profileRepo, traitRepo, outputRepo, culturalRepo,
		store, fusionEngine, tier2, culturalEngine,
		cfg.MinConversationsAnalysis, logger,
	)
	orch := orchestrator.NewOrchestrator(runRepo, userRepo, orgRepo, analysisSvc, cfg.WorkerPoolSize, logger)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RunSchedule, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()
		if _, err := orch.RunOnce(runCtx, domain.RunTypeScheduled); err != nil {
			logger.Error("scheduled run failed", zap.Error(err))
		}
		// Puntajes de desempeno del periodo que acaba de cerrar.
		to := time.Now().UTC()
		from := to.AddDate(0, 0, -cfg.WindowDays)
		orgIDs, err := orgRepo.ListIDs(runCtx)
		if err != nil {
			logger.Error("list organizations for scoring failed", zap.Error(err))
		}
		for _, orgID := range orgIDs {
			if written, err := scorer.ComputeScores(runCtx, orgID, from, to); err != nil {
				logger.Error("performance scoring failed", zap.String("org_id", orgID), zap.Error(err))
			} else if written > 0 {
				logger.Info("performance scores written", zap.String("org_id", orgID), zap.Int("scores", written))
			}
		}

		horizon := to.AddDate(0, 0, -cfg.RollupAfterDays)
		if compacted, err := store.RollupBefore(runCtx, horizon); err != nil {
			logger.Error("window rollup failed", zap.Error(err))
		} else if compacted > 0 {
			logger.Info("window rollup done", zap.Int("compacted", compacted))
		}
	}); err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	eventHandler := apihttp.NewEventHandler(logger, userRepo, store)
	profileHandler := apihttp.NewProfileHandler(logger, userRepo, profileRepo, traitRepo, culturalRepo, erasureRepo)
	metricHandler := apihttp.NewMetricHandler(logger, suggestEngine)
	runHandler := apihttp.NewRunHandler(logger, runRepo, orch)
	router := apihttp.NewRouter(logger, eventHandler, profileHandler, metricHandler, runHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
