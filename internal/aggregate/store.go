package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"team-pulse/internal/domain"
	"team-pulse/internal/repository"
)

// Store administra las ventanas de agregacion. El merge es aditivo en la base
// (upsert por ventana), asi que entregas repetidas o fuera de orden son
// seguras y no hace falta lock a nivel motor.
type Store struct {
	windows    repository.WindowRepository
	windowDays int
	logger     *zap.Logger
}

func NewStore(windows repository.WindowRepository, windowDays int, logger *zap.Logger) *Store {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Store{
		windows:    windows,
		windowDays: windowDays,
		logger:     logger,
	}
}

// PeriodStart alinea un timestamp al inicio de su ventana. El limite es
// configuracion (dias por ventana), alineado al epoch en UTC.
func (s *Store) PeriodStart(ts time.Time) time.Time {
	day := 24 * time.Hour
	windowLen := time.Duration(s.windowDays) * day
	aligned := ts.UTC().Truncate(day)
	offset := aligned.Sub(time.Unix(0, 0).UTC()) % windowLen
	return aligned.Add(-offset)
}

// PeriodEnd devuelve el fin exclusivo de la ventana que contiene ts.
func (s *Store) PeriodEnd(ts time.Time) time.Time {
	return s.PeriodStart(ts).Add(time.Duration(s.windowDays) * 24 * time.Hour)
}

// MergeFeatures incorpora un FeatureRecord a la ventana correspondiente.
func (s *Store) MergeFeatures(ctx context.Context, userID, orgID, channelType string, ts time.Time, f domain.FeatureRecord) error {
	now := time.Now().UTC()
	w := domain.AggregationWindow{
		ID:             uuid.NewString(),
		UserID:         userID,
		OrganizationID: orgID,
		ChannelType:    channelType,
		PeriodStart:    s.PeriodStart(ts),
		PeriodEnd:      s.PeriodEnd(ts),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	w.Absorb(f)

	if err := s.windows.MergeAbsorb(ctx, w); err != nil {
		return fmt.Errorf("merge window: %w", err)
	}
	return nil
}

// GetWindow devuelve la ventana de un usuario/canal/periodo.
func (s *Store) GetWindow(ctx context.Context, userID, orgID, channelType string, periodStart time.Time) (domain.AggregationWindow, error) {
	return s.windows.Get(ctx, userID, orgID, channelType, periodStart)
}

// History devuelve las ventanas mas recientes de un usuario, nuevas primero.
func (s *Store) History(ctx context.Context, userID, orgID string, limit int) ([]domain.AggregationWindow, error) {
	if limit <= 0 {
		limit = 26
	}
	return s.windows.ListByUser(ctx, userID, orgID, limit)
}

// RollupBefore compacta las ventanas anteriores al horizonte en ventanas
// mensuales gruesas. Evita crecimiento sin limite del historial fino.
func (s *Store) RollupBefore(ctx context.Context, horizon time.Time) (int, error) {
	old, err := s.windows.ListBefore(ctx, horizon)
	if err != nil {
		return 0, fmt.Errorf("list stale windows: %w", err)
	}
	if len(old) == 0 {
		return 0, nil
	}

	type rollupKey struct {
		userID, orgID, channel string
		monthStart             time.Time
	}
	type rollupGroup struct {
		window  *domain.AggregationWindow
		fineIDs []string
	}
	rollups := make(map[rollupKey]*rollupGroup)
	for _, w := range old {
		// Las ventanas ya compactadas (periodo mensual o mayor) no se
		// vuelven a absorber: evitaria contarlas dos veces.
		if w.PeriodEnd.Sub(w.PeriodStart) >= 28*24*time.Hour {
			continue
		}
		monthStart := time.Date(w.PeriodStart.Year(), w.PeriodStart.Month(), 1, 0, 0, 0, 0, time.UTC)
		key := rollupKey{w.UserID, w.OrganizationID, w.ChannelType, monthStart}
		group, ok := rollups[key]
		if !ok {
			group = &rollupGroup{window: &domain.AggregationWindow{
				ID:             uuid.NewString(),
				UserID:         w.UserID,
				OrganizationID: w.OrganizationID,
				ChannelType:    w.ChannelType,
				PeriodStart:    monthStart,
				PeriodEnd:      monthStart.AddDate(0, 1, 0),
				CreatedAt:      time.Now().UTC(),
				UpdatedAt:      time.Now().UTC(),
			}}
			rollups[key] = group
		}
		group.window.Merge(w)
		// El rollup conserva el periodo mensual, no el rango absorbido.
		group.window.PeriodStart = monthStart
		group.window.PeriodEnd = monthStart.AddDate(0, 1, 0)
		group.fineIDs = append(group.fineIDs, w.ID)
	}
	if len(rollups) == 0 {
		return 0, nil
	}

	// Cada clave se compacta de forma atomica: la escritura del rollup y el
	// borrado de las ventanas finas van en la misma transaccion. Una clave
	// que falla se reintenta intacta en la proxima pasada.
	compacted := 0
	var firstErr error
	for _, group := range rollups {
		if err := s.windows.Compact(ctx, *group.window, group.fineIDs); err != nil {
			s.logger.Warn("window compaction failed",
				zap.Error(err),
				zap.String("user_id", group.window.UserID),
				zap.Time("month_start", group.window.PeriodStart))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		compacted += len(group.fineIDs)
	}
	if firstErr != nil {
		return compacted, fmt.Errorf("compact rollup: %w", firstErr)
	}
	return compacted, nil
}
