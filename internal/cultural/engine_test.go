package cultural

import (
	"testing"

	"go.uber.org/zap"

	"team-pulse/internal/domain"
)

func testEngine() *Engine {
	return NewEngine("US", 50, zap.NewNop())
}

func TestBaselineFallsBackToDefault(t *testing.T) {
	e := testEngine()

	jp := e.Baseline("JP")
	if jp.Masculinity != 95 {
		t.Fatalf("expected JP masculinity 95, got %v", jp.Masculinity)
	}
	if got := e.Baseline("jp"); got != jp {
		t.Fatalf("country code lookup should be case-insensitive")
	}

	us := e.Baseline("US")
	if got := e.Baseline("ZZ"); got != us {
		t.Fatalf("unknown country should fall back to default baseline")
	}
	if got := e.Baseline(""); got != us {
		t.Fatalf("empty country should fall back to default baseline")
	}
}

// En los extremos la mezcla es exacta: confianza 0 devuelve el baseline y
// confianza 100 devuelve el ajuste, sin deriva de redondeo.
func TestBlendBoundariesExact(t *testing.T) {
	e := testEngine()
	baseline := e.Baseline("DE")
	adjusted := domain.CulturalDimensions{
		PowerDistance:        10,
		Individualism:        90,
		Masculinity:          33,
		UncertaintyAvoidance: 77,
		LongTermOrientation:  20,
		Indulgence:           55,
	}

	if got := e.Blend(baseline, adjusted, 0); got != baseline {
		t.Fatalf("confidence 0 should return baseline exactly, got %+v", got)
	}
	if got := e.Blend(baseline, adjusted, 100); got != adjusted {
		t.Fatalf("confidence 100 should return adjustments exactly, got %+v", got)
	}

	mid := e.Blend(baseline, adjusted, 50)
	if mid.PowerDistance != (baseline.PowerDistance+adjusted.PowerDistance)/2 {
		t.Fatalf("confidence 50 should average dimensions, got %v", mid.PowerDistance)
	}
}

func TestConfidenceGrowsAndSaturates(t *testing.T) {
	e := testEngine()

	if got := e.Confidence(0); got != 0 {
		t.Fatalf("expected 0 confidence without conversations, got %d", got)
	}
	ten := e.Confidence(10)
	sixty := e.Confidence(60)
	if ten != 20 {
		t.Fatalf("expected 10/50 conversations to give 20, got %d", ten)
	}
	if sixty != 100 {
		t.Fatalf("expected confidence to saturate at 100, got %d", sixty)
	}
	if !(ten < e.Confidence(30)) {
		t.Fatalf("confidence should grow monotonically with conversations")
	}
}

func TestAdjustmentsBoundedAndSignalDriven(t *testing.T) {
	e := testEngine()

	formal := []domain.AggregationWindow{{
		MessageCount:  30,
		FormalitySum:  30 * 90,
		NeutralCount:  30,
		KeywordCounts: map[string]int{domain.KeywordPlanning: 12, domain.KeywordSocial: 2},
	}}
	informal := []domain.AggregationWindow{{
		MessageCount:  30,
		FormalitySum:  30 * 20,
		PositiveCount: 25,
		NeutralCount:  5,
	}}

	f := e.Adjustments(formal)
	i := e.Adjustments(informal)
	if f.PowerDistance <= i.PowerDistance {
		t.Fatalf("formal communication should raise power distance: %v vs %v", f.PowerDistance, i.PowerDistance)
	}
	if i.Indulgence <= f.Indulgence {
		t.Fatalf("positive tone should raise indulgence: %v vs %v", i.Indulgence, f.Indulgence)
	}

	for _, dims := range []domain.CulturalDimensions{f, i, e.Adjustments(nil)} {
		for _, v := range dims.Vector() {
			if v < 0 || v > 100 {
				t.Fatalf("dimension %v out of bounds", v)
			}
		}
	}
}

func TestProfileBlendsWithObservedVolume(t *testing.T) {
	e := testEngine()
	windows := []domain.AggregationWindow{{
		MessageCount:   25,
		FormalitySum:   25 * 30,
		PositiveCount:  15,
		NeutralCount:   10,
		InitiatedCount: 10,
	}}

	profile := e.Profile("profile-1", "MX", windows)
	if profile.Confidence != 50 {
		t.Fatalf("expected confidence 50 for 25/50 conversations, got %d", profile.Confidence)
	}
	if profile.ConversationsAnalyzed != 25 {
		t.Fatalf("expected 25 conversations analyzed, got %d", profile.ConversationsAnalyzed)
	}
	if profile.Baseline != e.Baseline("MX") {
		t.Fatalf("baseline must stay the published country values")
	}
	// MX baseline PDI=81; formalidad baja empuja el ajuste hacia abajo y la
	// mezcla debe quedar estrictamente entre ambos.
	if !(profile.Blended.PowerDistance < profile.Baseline.PowerDistance &&
		profile.Blended.PowerDistance > profile.Adjusted.PowerDistance) {
		t.Fatalf("blended power distance should sit between adjusted %v and baseline %v, got %v",
			profile.Adjusted.PowerDistance, profile.Baseline.PowerDistance, profile.Blended.PowerDistance)
	}
}
