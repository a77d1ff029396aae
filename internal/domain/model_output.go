package domain

import "time"

// ModelType identifica cada modelo del pipeline como variante cerrada.
type ModelType string

const (
	ModelTier1Keyword    ModelType = "tier1_keyword"
	ModelTier1Sentiment  ModelType = "tier1_sentiment"
	ModelTier1Behavioral ModelType = "tier1_behavioral"
	ModelTier2LLM        ModelType = "tier2_llm"
)

// ModelTypes lista las variantes en orden estable.
var ModelTypes = []ModelType{
	ModelTier1Keyword,
	ModelTier1Sentiment,
	ModelTier1Behavioral,
	ModelTier2LLM,
}

// Valid indica si el tipo pertenece al conjunto cerrado de modelos.
func (t ModelType) Valid() bool {
	switch t {
	case ModelTier1Keyword, ModelTier1Sentiment, ModelTier1Behavioral, ModelTier2LLM:
		return true
	}
	return false
}

// Tier1 indica si el modelo corre sin costo externo.
func (t ModelType) Tier1() bool {
	return t != ModelTier2LLM && t.Valid()
}

// ModelOutput es la prediccion de un modelo para una corrida de analisis.
// Una vez escrita es inmutable: se conserva completa para auditoria.
type ModelOutput struct {
	ID          string         `json:"id"`
	RunID       string         `json:"run_id"`
	ProfileID   string         `json:"profile_id"`
	ModelType   ModelType      `json:"model_type"`
	TraitScores map[string]int `json:"trait_scores"`
	Confidence  int            `json:"confidence"`
	TokenCost   int            `json:"token_cost"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ClampScore limita un puntaje al rango 0-100.
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
