package extractor

import (
	"strings"
	"unicode"

	"team-pulse/internal/domain"
)

// Extractor convierte un InteractionEvent en un FeatureRecord acotado.
// Contrato duro: el contenido original nunca sale de este paso; todo lo que
// se devuelve son medidas numericas o categoricas.
type Extractor struct{}

// Extract valida identificadores y extrae features del contenido. Contenido
// vacio o inservible degrada a un registro en cero marcado low_quality en vez
// de fallar; identificadores faltantes devuelven ExtractionError.
func (Extractor) Extract(event domain.InteractionEvent) (domain.FeatureRecord, error) {
	switch {
	case strings.TrimSpace(event.UserID) == "":
		return domain.FeatureRecord{}, &domain.ExtractionError{Field: "user_id"}
	case strings.TrimSpace(event.OrganizationID) == "":
		return domain.FeatureRecord{}, &domain.ExtractionError{Field: "organization_id"}
	case strings.TrimSpace(event.ChannelType) == "":
		return domain.FeatureRecord{}, &domain.ExtractionError{Field: "channel_type"}
	}

	content := strings.TrimSpace(event.Content)
	if content == "" {
		return domain.FeatureRecord{
			LowQuality:          true,
			SentimentLabel:      domain.SentimentNeutral,
			ResponseTimeSeconds: event.ResponseTimeSeconds,
			Initiated:           event.ThreadStart,
			KeywordCounts:       map[string]int{},
		}, nil
	}

	words := strings.Fields(content)
	record := domain.FeatureRecord{
		CharCount:           len([]rune(content)),
		WordCount:           len(words),
		QuestionCount:       strings.Count(content, "?") + strings.Count(content, "¿"),
		ExclamationCount:    strings.Count(content, "!") + strings.Count(content, "¡"),
		EmojiCount:          countEmojis(content),
		ResponseTimeSeconds: event.ResponseTimeSeconds,
		Initiated:           event.ThreadStart,
		KeywordCounts:       map[string]int{},
	}

	positives, negatives := 0, 0
	formalHits, informalHits := 0, 0
	for _, raw := range words {
		word := normalizeWord(raw)
		if word == "" {
			continue
		}
		if _, ok := positiveWords[word]; ok {
			positives++
		}
		if _, ok := negativeWords[word]; ok {
			negatives++
		}
		if _, ok := formalMarkers[word]; ok {
			formalHits++
		}
		if _, ok := informalMarkers[word]; ok {
			informalHits++
		}
		for category, lexicon := range keywordLexicons {
			if _, ok := lexicon[word]; ok {
				record.KeywordCounts[category]++
			}
		}
	}

	record.SentimentLabel, record.SentimentScore = classifySentiment(positives, negatives, len(words))
	record.FormalityScore = formalityScore(content, words, formalHits, informalHits, record.EmojiCount, record.ExclamationCount)
	return record, nil
}

// classifySentiment pondera hits positivos/negativos contra el largo del texto.
func classifySentiment(positives, negatives, wordCount int) (string, float64) {
	if wordCount == 0 || positives+negatives == 0 {
		return domain.SentimentNeutral, 0
	}
	score := float64(positives-negatives) / float64(positives+negatives)
	switch {
	case score > 0.2:
		return domain.SentimentPositive, score
	case score < -0.2:
		return domain.SentimentNegative, score
	default:
		return domain.SentimentNeutral, score
	}
}

// formalityScore estima formalidad 0-100 con heuristicas superficiales:
// marcadores lexicos, capitalizacion inicial y densidad de emojis/exclamaciones.
func formalityScore(content string, words []string, formalHits, informalHits, emojis, exclamations int) int {
	score := 50
	score += 12 * formalHits
	score -= 12 * informalHits
	score -= 6 * emojis
	score -= 4 * exclamations

	first := []rune(content)[0]
	if unicode.IsUpper(first) {
		score += 8
	}
	if len(words) >= 25 {
		score += 6
	}
	return domain.ClampScore(score)
}

func countEmojis(content string) int {
	count := 0
	for _, r := range content {
		if (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) {
			count++
		}
	}
	// Emoticones de texto comunes.
	for _, face := range []string{":)", ":(", ":D", ";)", ":P", "xD"} {
		count += strings.Count(content, face)
	}
	return count
}

func normalizeWord(raw string) string {
	return strings.Trim(strings.ToLower(raw), ".,;:!?¡¿\"'()[]{}")
}
