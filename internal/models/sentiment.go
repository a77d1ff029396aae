package models

import (
	"math"

	"team-pulse/internal/domain"
)

const sentimentConfidence = 65

// SentimentAnalyzer trabaja sobre la distribucion de sentimiento y su varianza
// entre ventanas: estabilidad emocional, amabilidad y autorregulacion.
type SentimentAnalyzer struct{}

func (SentimentAnalyzer) Type() domain.ModelType {
	return domain.ModelTier1Sentiment
}

func (SentimentAnalyzer) Analyze(windows []domain.AggregationWindow) (domain.ModelOutput, error) {
	if totalMessages(windows) == 0 {
		return domain.ModelOutput{}, domain.ErrInsufficientData
	}

	var posPcts, negPcts []float64
	for _, w := range windows {
		if w.MessageCount == 0 {
			continue
		}
		pos, _, neg := w.SentimentPercentages()
		posPcts = append(posPcts, float64(pos))
		negPcts = append(negPcts, float64(neg))
	}

	meanPos := mean(posPcts)
	meanNeg := mean(negPcts)
	// Desviacion del porcentaje negativo entre ventanas: volatilidad emocional.
	volatility := stddev(negPcts)

	scores := map[string]int{
		// Negatividad sostenida + volatilidad alta suben neuroticismo.
		domain.TraitKey(domain.FrameworkBigFive, "neuroticism"):   domain.ClampScore(int(math.Round(meanNeg*1.5 + volatility))),
		domain.TraitKey(domain.FrameworkBigFive, "agreeableness"): domain.ClampScore(int(math.Round(40 + meanPos*0.8 - meanNeg*0.5))),
		// Autorregulacion: tono estable entre ventanas.
		domain.TraitKey(domain.FrameworkEQ, "self_regulation"): domain.ClampScore(int(math.Round(85 - volatility*2 - meanNeg*0.5))),
		domain.TraitKey(domain.FrameworkEQ, "positivity"):      domain.ClampScore(int(math.Round(meanPos * 1.2))),
		domain.TraitKey(domain.FrameworkEnneagram, "peacemaker"): domain.ClampScore(int(math.Round(60 + meanPos*0.4 - volatility))),
	}

	return newOutput(domain.ModelTier1Sentiment, scores, sentimentConfidence), nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
