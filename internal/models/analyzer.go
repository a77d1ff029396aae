package models

import (
	"math"
	"time"

	"team-pulse/internal/domain"
)

// Analyzer es un modelo tier-1: una funcion pura de las ventanas agregadas de
// un usuario, sin costo externo. Cada uno emite puntajes por rasgo y una
// confianza unica para esa corrida.
type Analyzer interface {
	Type() domain.ModelType
	Analyze(windows []domain.AggregationWindow) (domain.ModelOutput, error)
}

// Bank devuelve los tres analizadores tier-1 en orden estable.
func Bank() []Analyzer {
	return []Analyzer{
		KeywordAnalyzer{},
		SentimentAnalyzer{},
		BehavioralAnalyzer{},
	}
}

func newOutput(modelType domain.ModelType, scores map[string]int, confidence int) domain.ModelOutput {
	for k, v := range scores {
		scores[k] = domain.ClampScore(v)
	}
	return domain.ModelOutput{
		ModelType:   modelType,
		TraitScores: scores,
		Confidence:  domain.ClampScore(confidence),
		CreatedAt:   time.Now().UTC(),
	}
}

// scaleRatio mapea una fraccion 0-1 a 0-100 centrando `pivot` en 50.
// Ratios por encima del pivote empujan el puntaje hacia 100.
func scaleRatio(ratio, pivot float64) int {
	if pivot <= 0 {
		return domain.ClampScore(int(math.Round(ratio * 100)))
	}
	score := 50 + (ratio-pivot)/pivot*50
	return domain.ClampScore(int(math.Round(score)))
}

func totalMessages(windows []domain.AggregationWindow) int {
	total := 0
	for _, w := range windows {
		total += w.MessageCount
	}
	return total
}
