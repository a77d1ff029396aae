package fusion

import (
	"reflect"
	"testing"

	"team-pulse/internal/domain"
)

func extraversionOutputs() []domain.ModelOutput {
	key := domain.TraitKey(domain.FrameworkBigFive, "extraversion")
	return []domain.ModelOutput{
		{ModelType: domain.ModelTier1Keyword, TraitScores: map[string]int{key: 72}, Confidence: 60},
		{ModelType: domain.ModelTier1Sentiment, TraitScores: map[string]int{key: 68}, Confidence: 70},
		{ModelType: domain.ModelTier1Behavioral, TraitScores: map[string]int{key: 80}, Confidence: 80},
	}
}

// Escenario de referencia: keyword(72,60), sentiment(68,70), behavioral(80,80)
// con pesos base 0.25/0.25/0.30 produce consenso 74 con confianza 57.
func TestFuseReferenceScenario(t *testing.T) {
	engine := NewEngine(nil)
	key := domain.TraitKey(domain.FrameworkBigFive, "extraversion")

	consensus := engine.Fuse(extraversionOutputs())
	c, ok := consensus[key]
	if !ok {
		t.Fatalf("expected consensus for %s", key)
	}
	if c.Score != 74 {
		t.Fatalf("expected consensus score 74, got %d", c.Score)
	}
	// totalWeight = 0.25*0.6 + 0.25*0.7 + 0.30*0.8 = 0.565 -> 57.
	if c.Confidence != 57 {
		t.Fatalf("expected consensus confidence 57, got %d", c.Confidence)
	}
	if len(c.Breakdown) != 3 {
		t.Fatalf("expected full per-model breakdown, got %d entries", len(c.Breakdown))
	}
}

// Volver a fusionar el mismo snapshot debe dar un resultado identico.
func TestFuseIdempotent(t *testing.T) {
	engine := NewEngine(nil)
	first := engine.Fuse(extraversionOutputs())
	second := engine.Fuse(extraversionOutputs())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("fusion not idempotent: %+v vs %+v", first, second)
	}
}

func TestFuseBounds(t *testing.T) {
	engine := NewEngine(nil)
	key := domain.TraitKey(domain.FrameworkDISC, "dominance")

	cases := [][]domain.ModelOutput{
		{{ModelType: domain.ModelTier1Behavioral, TraitScores: map[string]int{key: 0}, Confidence: 100}},
		{{ModelType: domain.ModelTier1Behavioral, TraitScores: map[string]int{key: 100}, Confidence: 100}},
		{
			{ModelType: domain.ModelTier1Keyword, TraitScores: map[string]int{key: 100}, Confidence: 100},
			{ModelType: domain.ModelTier1Sentiment, TraitScores: map[string]int{key: 100}, Confidence: 100},
			{ModelType: domain.ModelTier1Behavioral, TraitScores: map[string]int{key: 100}, Confidence: 100},
			{ModelType: domain.ModelTier2LLM, TraitScores: map[string]int{key: 100}, Confidence: 100},
		},
		{{ModelType: domain.ModelTier1Keyword, TraitScores: map[string]int{key: 150}, Confidence: 300}},
	}

	for i, outputs := range cases {
		for _, c := range engine.Fuse(outputs) {
			if c.Score < 0 || c.Score > 100 {
				t.Fatalf("case %d: score %d out of bounds", i, c.Score)
			}
			if c.Confidence < 0 || c.Confidence > 100 {
				t.Fatalf("case %d: confidence %d out of bounds", i, c.Confidence)
			}
		}
	}
}

// La fusion degrada con gracia: cualquier subconjunto de modelos alcanza.
func TestFuseToleratesMissingModels(t *testing.T) {
	engine := NewEngine(nil)
	key := domain.TraitKey(domain.FrameworkBigFive, "openness")

	single := engine.Fuse([]domain.ModelOutput{
		{ModelType: domain.ModelTier1Keyword, TraitScores: map[string]int{key: 66}, Confidence: 50},
	})
	c, ok := single[key]
	if !ok {
		t.Fatalf("expected consensus from a single model")
	}
	if c.Score != 66 {
		t.Fatalf("single-model consensus should equal its score, got %d", c.Score)
	}
	// 0.25 * 0.5 = 0.125 -> 13.
	if c.Confidence != 13 {
		t.Fatalf("expected confidence 13, got %d", c.Confidence)
	}

	if got := engine.Fuse(nil); len(got) != 0 {
		t.Fatalf("expected empty consensus for no outputs, got %v", got)
	}
}

func TestConfigurableWeights(t *testing.T) {
	key := domain.TraitKey(domain.FrameworkBigFive, "extraversion")
	heavyBehavioral := NewEngine(Weights{domain.ModelTier1Behavioral: 0.90})

	c := heavyBehavioral.Fuse(extraversionOutputs())[key]
	base := NewEngine(nil).Fuse(extraversionOutputs())[key]

	if c.Score <= base.Score {
		t.Fatalf("heavier behavioral weight should pull score toward 80: %d vs base %d", c.Score, base.Score)
	}
}

func TestOverallConfidence(t *testing.T) {
	if got := OverallConfidence(nil); got != 0 {
		t.Fatalf("expected 0 for empty consensus, got %d", got)
	}
	consensus := map[string]Consensus{
		"a": {Confidence: 40},
		"b": {Confidence: 60},
	}
	if got := OverallConfidence(consensus); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}
