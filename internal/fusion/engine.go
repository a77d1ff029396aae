package fusion

import (
	"math"
	"sort"

	"team-pulse/internal/domain"
)

// Weights son los pesos base por tipo de modelo. Son configuracion, no
// constantes: se recalibran sin cambio de codigo.
type Weights map[domain.ModelType]float64

// DefaultWeights devuelve la calibracion por defecto del material original.
func DefaultWeights() Weights {
	return Weights{
		domain.ModelTier1Keyword:    0.25,
		domain.ModelTier1Sentiment:  0.25,
		domain.ModelTier1Behavioral: 0.30,
		domain.ModelTier2LLM:        0.20,
	}
}

// Consensus es el resultado fusionado de un rasgo: puntaje, confianza y el
// desglose por modelo que lo produjo (auditoria).
type Consensus struct {
	Score      int
	Confidence int
	Breakdown  []domain.ModelContribution
}

// Engine combina cualquier subconjunto de salidas de modelos en un consenso
// por rasgo. Es determinista: el mismo snapshot de outputs produce byte a
// byte el mismo resultado.
type Engine struct {
	weights Weights
}

func NewEngine(weights Weights) *Engine {
	merged := DefaultWeights()
	for modelType, w := range weights {
		if modelType.Valid() && w > 0 {
			merged[modelType] = w
		}
	}
	return &Engine{weights: merged}
}

// Fuse aplica, por rasgo: adjustedWeight = baseWeight × confidence/100,
// score = round(Σ score×peso / Σ peso), confidence = clamp(round(Σ peso × 100)).
// Tolera cualquier subconjunto de modelos presentes.
func (e *Engine) Fuse(outputs []domain.ModelOutput) map[string]Consensus {
	byTrait := make(map[string][]domain.ModelContribution)
	for _, out := range outputs {
		if !out.ModelType.Valid() {
			continue
		}
		base := e.weights[out.ModelType]
		for trait, score := range out.TraitScores {
			byTrait[trait] = append(byTrait[trait], domain.ModelContribution{
				ModelType:  out.ModelType,
				Score:      domain.ClampScore(score),
				Confidence: domain.ClampScore(out.Confidence),
				Weight:     base * float64(domain.ClampScore(out.Confidence)) / 100,
			})
		}
	}

	result := make(map[string]Consensus, len(byTrait))
	for trait, contributions := range byTrait {
		sort.Slice(contributions, func(i, j int) bool {
			return contributions[i].ModelType < contributions[j].ModelType
		})

		weightedSum := 0.0
		totalWeight := 0.0
		for _, c := range contributions {
			weightedSum += float64(c.Score) * c.Weight
			totalWeight += c.Weight
		}
		if totalWeight == 0 {
			continue
		}
		result[trait] = Consensus{
			Score:      domain.ClampScore(int(math.Round(weightedSum / totalWeight))),
			Confidence: domain.ClampScore(int(math.Round(totalWeight * 100))),
			Breakdown:  contributions,
		}
	}
	return result
}

// OverallConfidence promedia la confianza de consenso de todos los rasgos.
func OverallConfidence(consensus map[string]Consensus) int {
	if len(consensus) == 0 {
		return 0
	}
	sum := 0
	for _, c := range consensus {
		sum += c.Confidence
	}
	return domain.ClampScore(int(math.Round(float64(sum) / float64(len(consensus)))))
}
