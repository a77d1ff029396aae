package domain

import (
	"strings"
	"time"
)

// Frameworks de personalidad soportados.
const (
	FrameworkBigFive   = "BIG_FIVE"
	FrameworkDISC      = "DISC"
	FrameworkMBTI      = "MBTI"
	FrameworkEnneagram = "ENNEAGRAM"
	FrameworkEQ        = "EMOTIONAL_INTELLIGENCE"
)

// Frameworks lista los cinco frameworks en orden estable.
var Frameworks = []string{
	FrameworkBigFive,
	FrameworkDISC,
	FrameworkMBTI,
	FrameworkEnneagram,
	FrameworkEQ,
}

// TraitKey compone la clave "FRAMEWORK.rasgo" usada en los mapas de puntajes.
func TraitKey(framework, trait string) string {
	return framework + "." + strings.ToLower(strings.TrimSpace(trait))
}

// SplitTraitKey separa una clave compuesta en framework y rasgo.
func SplitTraitKey(key string) (framework, trait string) {
	idx := strings.IndexByte(key, '.')
	if idx < 0 {
		return "", key
	}
	return key[:idx], key[idx+1:]
}

// ModelContribution registra el aporte de un modelo al consenso de un rasgo.
type ModelContribution struct {
	ModelType  ModelType `json:"model_type"`
	Score      int       `json:"score"`
	Confidence int       `json:"confidence"`
	Weight     float64   `json:"weight"`
}

// PersonalityTrait es una fila de la serie temporal de consenso por rasgo.
type PersonalityTrait struct {
	ID         string              `json:"id"`
	ProfileID  string              `json:"profile_id"`
	Framework  string              `json:"framework"`
	Trait      string              `json:"trait"`
	Score      int                 `json:"score"`
	Confidence int                 `json:"confidence"`
	Breakdown  []ModelContribution `json:"breakdown"`
	ObservedAt time.Time           `json:"observed_at"`
	CreatedAt  time.Time           `json:"created_at"`
}
