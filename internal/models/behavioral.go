package models

import (
	"math"

	"team-pulse/internal/domain"
)

// El analizador conductual lleva la confianza mas alta del banco: tasas de
// iniciacion, latencia y preguntas dependen poco del idioma del contenido.
const behavioralConfidence = 80

// BehavioralAnalyzer deriva extraversion y senales DISC desde patrones de
// interaccion, no desde el texto.
type BehavioralAnalyzer struct{}

func (BehavioralAnalyzer) Type() domain.ModelType {
	return domain.ModelTier1Behavioral
}

func (BehavioralAnalyzer) Analyze(windows []domain.AggregationWindow) (domain.ModelOutput, error) {
	if totalMessages(windows) == 0 {
		return domain.ModelOutput{}, domain.ErrInsufficientData
	}

	var merged domain.AggregationWindow
	for _, w := range windows {
		merged.Merge(w)
	}

	initiation := merged.InitiationRate()
	questions := merged.QuestionRate()
	latency := merged.AvgResponseTime()
	exclamations := float64(merged.ExclamationSum) / float64(merged.MessageCount)

	// Latencia corta sugiere disponibilidad/energia social; se satura a la
	// hora para no castigar canales asincronicos.
	latencyScore := 100.0
	if latency > 0 {
		latencyScore = 100 - math.Min(latency, 3600)/3600*100
	}

	scores := map[string]int{
		domain.TraitKey(domain.FrameworkBigFive, "extraversion"): domain.ClampScore(int(math.Round(initiation*120 + exclamations*20))),
		domain.TraitKey(domain.FrameworkMBTI, "extraversion"):    domain.ClampScore(int(math.Round(initiation*110 + latencyScore*0.2))),
		// Dominancia: inicia conversaciones y empuja con enfasis.
		domain.TraitKey(domain.FrameworkDISC, "dominance"): domain.ClampScore(int(math.Round(initiation*100 + exclamations*25))),
		domain.TraitKey(domain.FrameworkDISC, "influence"): domain.ClampScore(int(math.Round(initiation*80 + latencyScore*0.3))),
		// Cumplimiento: pregunta antes de actuar, responde con cadencia estable.
		domain.TraitKey(domain.FrameworkDISC, "compliance"): domain.ClampScore(int(math.Round(questions*90 + (100-latencyScore)*0.2))),
		domain.TraitKey(domain.FrameworkDISC, "steadiness"): domain.ClampScore(int(math.Round(60 + (100-latencyScore)*0.1 - exclamations*10))),
		domain.TraitKey(domain.FrameworkEQ, "social_awareness"): domain.ClampScore(int(math.Round(questions*70 + initiation*40))),
	}

	return newOutput(domain.ModelTier1Behavioral, scores, behavioralConfidence), nil
}
