package models

import (
	"team-pulse/internal/domain"
)

// Confianza fija del analizador de keywords: el piso del banco tier-1, porque
// los ratios lexicos son la senal mas dependiente del idioma.
const keywordConfidence = 55

// KeywordAnalyzer deriva senales de apertura/responsabilidad desde los ratios
// de categorias lexicas acumulados en las ventanas.
type KeywordAnalyzer struct{}

func (KeywordAnalyzer) Type() domain.ModelType {
	return domain.ModelTier1Keyword
}

func (KeywordAnalyzer) Analyze(windows []domain.AggregationWindow) (domain.ModelOutput, error) {
	if totalMessages(windows) == 0 {
		return domain.ModelOutput{}, domain.ErrInsufficientData
	}

	var merged domain.AggregationWindow
	for _, w := range windows {
		merged.Merge(w)
	}

	cognitive := merged.KeywordRatio(domain.KeywordCognitive)
	planning := merged.KeywordRatio(domain.KeywordPlanning)
	achievement := merged.KeywordRatio(domain.KeywordAchievement)
	social := merged.KeywordRatio(domain.KeywordSocial)

	scores := map[string]int{
		// Vocabulario cognitivo/exploratorio como proxy de apertura.
		domain.TraitKey(domain.FrameworkBigFive, "openness"): scaleRatio(cognitive, 0.20),
		// Planificacion y logro como proxy de responsabilidad.
		domain.TraitKey(domain.FrameworkBigFive, "conscientiousness"): scaleRatio((planning+achievement)/2, 0.18),
		domain.TraitKey(domain.FrameworkMBTI, "intuition"):            scaleRatio(cognitive, 0.22),
		domain.TraitKey(domain.FrameworkMBTI, "judging"):              scaleRatio(planning, 0.18),
		domain.TraitKey(domain.FrameworkEnneagram, "achiever"):        scaleRatio(achievement, 0.15),
		domain.TraitKey(domain.FrameworkEnneagram, "helper"):          scaleRatio(social, 0.20),
	}

	return newOutput(domain.ModelTier1Keyword, scores, keywordConfidence), nil
}
