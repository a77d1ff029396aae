package validator

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"team-pulse/internal/domain"
	"team-pulse/internal/fusion"
)

// Triggers son los disparadores de validacion selectiva. El objetivo es
// validar solo la fraccion de perfiles donde el costo externo aporta.
type Triggers struct {
	ConfidenceThreshold int
	ConflictGap         int
	ConflictMinConf     int
	SamplePercent       int
}

// DefaultTriggers devuelve la calibracion por defecto.
func DefaultTriggers() Triggers {
	return Triggers{
		ConfidenceThreshold: 70,
		ConflictGap:         40,
		ConflictMinConf:     60,
		SamplePercent:       10,
	}
}

// Validator decide cuando escalar a tier-2 y ejecuta la llamada con rate
// limit, reintentos y timeout duro. Un fallo del proveedor nunca tumba la
// corrida: el llamador degrada al consenso tier-1.
type Validator struct {
	provider   Provider
	triggers   Triggers
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
	logger     *zap.Logger
}

func NewValidator(provider Provider, triggers Triggers, rps float64, timeout time.Duration, maxRetries int, logger *zap.Logger) *Validator {
	if rps <= 0 {
		rps = 1
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Validator{
		provider:   provider,
		triggers:   triggers,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		timeout:    timeout,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// ShouldValidate evalua los tres disparadores sobre el consenso tier-1:
// confianza global baja, conflicto fuerte entre modelos, o muestreo
// deterministico semanal de control de calidad.
func (v *Validator) ShouldValidate(userID string, at time.Time, consensus map[string]fusion.Consensus) (bool, string) {
	if len(consensus) == 0 {
		return false, ""
	}
	if fusion.OverallConfidence(consensus) < v.triggers.ConfidenceThreshold {
		return true, "low_confidence"
	}
	for trait, c := range consensus {
		if v.hasConflict(c) {
			return true, "model_conflict:" + trait
		}
	}
	if v.sampled(userID, at) {
		return true, "weekly_sample"
	}
	return false, ""
}

// hasConflict detecta dos modelos confiados que se contradicen en el mismo
// rasgo: ambos con confianza alta y puntajes muy separados.
func (v *Validator) hasConflict(c fusion.Consensus) bool {
	for i := 0; i < len(c.Breakdown); i++ {
		for j := i + 1; j < len(c.Breakdown); j++ {
			a, b := c.Breakdown[i], c.Breakdown[j]
			gap := a.Score - b.Score
			if gap < 0 {
				gap = -gap
			}
			if gap >= v.triggers.ConflictGap &&
				a.Confidence > v.triggers.ConflictMinConf &&
				b.Confidence > v.triggers.ConflictMinConf {
				return true
			}
		}
	}
	return false
}

// sampled selecciona un porcentaje fijo de usuarios por semana ISO. El hash
// es deterministico: el mismo usuario cae o no cae toda la semana, sin
// estado compartido entre workers.
func (v *Validator) sampled(userID string, at time.Time) bool {
	if v.triggers.SamplePercent <= 0 {
		return false
	}
	year, week := at.UTC().ISOWeek()
	h := fnv.New32a()
	fmt.Fprintf(h, "%s:%d-W%02d", userID, year, week)
	return int(h.Sum32()%100) < v.triggers.SamplePercent
}

// Validate llama al proveedor respetando el rate limit global, con backoff
// exponencial hasta agotar reintentos. Todo fallo termina envuelto en
// ErrValidationProvider para que el orquestador degrade sin inspeccionar.
func (v *Validator) Validate(ctx context.Context, summary string) (domain.ModelOutput, error) {
	var lastErr error
	for attempt := 0; attempt <= v.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			v.logger.Warn("validation retry",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return domain.ModelOutput{}, fmt.Errorf("%w: %v", domain.ErrValidationProvider, ctx.Err())
			}
		}

		if err := v.limiter.Wait(ctx); err != nil {
			return domain.ModelOutput{}, fmt.Errorf("%w: %v", domain.ErrValidationProvider, err)
		}

		callCtx, cancel := context.WithTimeout(ctx, v.timeout)
		validation, err := v.provider.Validate(callCtx, summary)
		cancel()
		if err == nil {
			return outputFromValidation(validation), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return domain.ModelOutput{}, fmt.Errorf("%w: %v", domain.ErrValidationProvider, lastErr)
}
