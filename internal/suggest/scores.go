package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"team-pulse/internal/domain"
	"team-pulse/internal/repository"
)

// Scorer evalua formulas declarativas de metricas sobre las ventanas de una
// organizacion y persiste los puntajes por usuario y periodo.
type Scorer struct {
	windows repository.WindowRepository
	metrics repository.MetricRepository
	logger  *zap.Logger
}

func NewScorer(windows repository.WindowRepository, metrics repository.MetricRepository, logger *zap.Logger) *Scorer {
	return &Scorer{windows: windows, metrics: metrics, logger: logger}
}

// ComputeScores calcula cada metrica definida de la organizacion para cada
// usuario con ventanas en el periodo. Devuelve cuantos puntajes escribio.
func (s *Scorer) ComputeScores(ctx context.Context, orgID string, from, to time.Time) (int, error) {
	definitions, err := s.metrics.ListByOrganization(ctx, orgID)
	if err != nil {
		return 0, fmt.Errorf("list metric definitions: %w", err)
	}
	if len(definitions) == 0 {
		return 0, nil
	}

	windows, err := s.windows.ListByOrgPeriod(ctx, orgID, from, to)
	if err != nil {
		return 0, fmt.Errorf("list org windows: %w", err)
	}

	byUser := make(map[string][]domain.AggregationWindow)
	for _, w := range windows {
		byUser[w.UserID] = append(byUser[w.UserID], w)
	}

	written := 0
	for userID, userWindows := range byUser {
		for _, def := range definitions {
			value, dataPoints, err := EvaluateFormula(def.Formula, userWindows)
			if err != nil {
				s.logger.Warn("formula evaluation skipped",
					zap.String("metric", def.Name),
					zap.String("user_id", userID),
					zap.Error(err))
				continue
			}
			if dataPoints == 0 {
				continue
			}

			score := domain.PerformanceScore{
				ID:          uuid.NewString(),
				MetricID:    def.ID,
				UserID:      userID,
				PeriodStart: from,
				PeriodEnd:   to,
				Score:       value,
				TargetMet:   def.TargetValue != nil && value >= *def.TargetValue,
				DataPoints:  dataPoints,
				CreatedAt:   time.Now().UTC(),
			}
			if err := s.metrics.InsertScore(ctx, score); err != nil {
				return written, fmt.Errorf("insert score for metric %s: %w", def.Name, err)
			}
			written++
		}
	}
	return written, nil
}

// EvaluateFormula aplica una formula declarativa (fuente + filtro de canal +
// agregacion) sobre un conjunto de ventanas. Devuelve el valor y la cantidad
// de mensajes que lo respaldan.
func EvaluateFormula(f domain.MetricFormula, windows []domain.AggregationWindow) (float64, int, error) {
	var merged domain.AggregationWindow
	for _, w := range windows {
		if f.ChannelFilter != "" && w.ChannelType != f.ChannelFilter {
			continue
		}
		merged.Merge(w)
	}
	if merged.MessageCount == 0 {
		return 0, 0, nil
	}

	var sum float64
	switch f.Source {
	case domain.MetricSourceMessages:
		sum = float64(merged.MessageCount)
	case domain.MetricSourceInitiations:
		sum = float64(merged.InitiatedCount)
	case domain.MetricSourceQuestions:
		sum = float64(merged.QuestionSum)
	case domain.MetricSourceResponseTime:
		switch f.Aggregation {
		case domain.AggregationAvg:
			return merged.AvgResponseTime(), merged.ResponseTimeCount, nil
		case domain.AggregationSum:
			return merged.ResponseTimeSum, merged.ResponseTimeCount, nil
		case domain.AggregationCount:
			return float64(merged.ResponseTimeCount), merged.ResponseTimeCount, nil
		default:
			return 0, 0, fmt.Errorf("unknown aggregation %q", f.Aggregation)
		}
	case domain.MetricSourcePositivity:
		pos, _, _ := merged.SentimentPercentages()
		sum = float64(pos) * float64(merged.MessageCount) / 100
	default:
		return 0, 0, fmt.Errorf("unknown metric source %q", f.Source)
	}

	switch f.Aggregation {
	case domain.AggregationSum, domain.AggregationCount:
		return sum, merged.MessageCount, nil
	case domain.AggregationAvg:
		return sum / float64(merged.MessageCount), merged.MessageCount, nil
	default:
		return 0, 0, fmt.Errorf("unknown aggregation %q", f.Aggregation)
	}
}
