package orchestrator

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"team-pulse/internal/domain"
	"team-pulse/internal/repository"
)

// Orchestrator coordina corridas batch de analisis sobre toda la poblacion
// con consentimiento. El progreso parcial siempre queda registrado: una
// corrida cancelada o fallida conserva sus contadores.
type Orchestrator struct {
	runs     repository.RunRepository
	users    repository.UserRepository
	orgs     repository.OrganizationRepository
	analysis *AnalysisService
	workers  int
	logger   *zap.Logger
}

func NewOrchestrator(
	runs repository.RunRepository,
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	analysis *AnalysisService,
	workers int,
	logger *zap.Logger,
) *Orchestrator {
	if workers <= 0 {
		workers = 8
	}
	return &Orchestrator{
		runs:     runs,
		users:    users,
		orgs:     orgs,
		analysis: analysis,
		workers:  workers,
		logger:   logger,
	}
}

// StartRun registra una corrida en pending y la devuelve. La ejecucion es
// responsabilidad de Execute; separarlas permite responder el POST de
// inmediato y correr en background.
func (o *Orchestrator) StartRun(ctx context.Context, runType string) (domain.AnalysisRun, error) {
	if runType != domain.RunTypeScheduled && runType != domain.RunTypeManual {
		runType = domain.RunTypeManual
	}
	run := domain.AnalysisRun{
		ID:        uuid.NewString(),
		RunType:   runType,
		Status:    domain.RunStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.runs.Create(ctx, run); err != nil {
		return domain.AnalysisRun{}, err
	}
	return run, nil
}

// Execute procesa la corrida: pending -> running -> completed|failed. Los
// usuarios se despachan a un pool acotado; consentimiento ausente o datos
// insuficientes cuentan como skipped, cualquier otro error como failed sin
// frenar al resto.
func (o *Orchestrator) Execute(ctx context.Context, run domain.AnalysisRun) (domain.AnalysisRun, error) {
	started := time.Now().UTC()
	run.Status = domain.RunStatusRunning
	run.StartedAt = &started
	if err := o.runs.Update(ctx, run); err != nil {
		return run, err
	}

	var (
		mu         sync.Mutex
		processed  int
		skipped    int
		failed     int
		tokenCost  int
		modelsUsed = map[string]bool{}
	)

	orgIDs, err := o.orgs.ListIDs(ctx)
	if err != nil {
		return o.finish(ctx, run, processed, skipped, failed, tokenCost, nil, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

dispatch:
	for _, orgID := range orgIDs {
		users, err := o.users.ListConsented(ctx, orgID)
		if err != nil {
			o.logger.Error("list consented users failed", zap.String("org_id", orgID), zap.Error(err))
			mu.Lock()
			failed++
			mu.Unlock()
			continue
		}
		for _, user := range users {
			if gctx.Err() != nil {
				break dispatch
			}
			user := user
			g.Go(func() error {
				// Un usuario ya despachado termina completo: la cancelacion
				// frena el despacho, no la persistencia en vuelo.
				result, err := o.analysis.AnalyzeUser(context.WithoutCancel(gctx), run.ID, user)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					processed++
					tokenCost += result.TokenCost
					for _, m := range result.ModelsUsed {
						modelsUsed[m] = true
					}
				case errors.Is(err, domain.ErrConsentMissing), errors.Is(err, domain.ErrInsufficientData):
					skipped++
				default:
					failed++
					o.logger.Error("user analysis failed",
						zap.String("run_id", run.ID),
						zap.String("user_id", user.ID),
						zap.Error(err))
				}
				return nil
			})
		}
	}

	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	models := make([]string, 0, len(modelsUsed))
	for m := range modelsUsed {
		models = append(models, m)
	}
	sort.Strings(models)

	return o.finish(ctx, run, processed, skipped, failed, tokenCost, models, runErr)
}

// RunOnce crea y ejecuta una corrida completa. Es el punto de entrada del
// scheduler y del CLI batch.
func (o *Orchestrator) RunOnce(ctx context.Context, runType string) (domain.AnalysisRun, error) {
	run, err := o.StartRun(ctx, runType)
	if err != nil {
		return domain.AnalysisRun{}, err
	}
	return o.Execute(ctx, run)
}

func (o *Orchestrator) finish(ctx context.Context, run domain.AnalysisRun, processed, skipped, failed, tokenCost int, models []string, runErr error) (domain.AnalysisRun, error) {
	finished := time.Now().UTC()
	run.UsersProcessed = processed
	run.UsersSkipped = skipped
	run.UsersFailed = failed
	run.TokenCost = tokenCost
	run.ModelsUsed = models
	run.FinishedAt = &finished

	if runErr != nil {
		run.Status = domain.RunStatusFailed
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = domain.RunStatusCompleted
	}

	// El update final usa un contexto propio: una cancelacion no debe perder
	// el progreso parcial ya contado.
	updateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := o.runs.Update(updateCtx, run); err != nil {
		o.logger.Error("final run update failed", zap.String("run_id", run.ID), zap.Error(err))
		return run, err
	}

	o.logger.Info("analysis run finished",
		zap.String("run_id", run.ID),
		zap.String("status", run.Status),
		zap.Int("processed", processed),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Int("token_cost", tokenCost))
	return run, runErr
}
