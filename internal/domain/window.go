package domain

import "time"

// AggregationWindow resume las interacciones de un usuario/canal en un
// periodo. Solo guarda sumas y contadores: la fusion de registros repetidos o
// fuera de orden es asociativa y conmutativa por construccion.
type AggregationWindow struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	ChannelType    string    `json:"channel_type"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`

	MessageCount      int            `json:"message_count"`
	WordSum           int            `json:"word_sum"`
	CharSum           int            `json:"char_sum"`
	PositiveCount     int            `json:"positive_count"`
	NeutralCount      int            `json:"neutral_count"`
	NegativeCount     int            `json:"negative_count"`
	QuestionSum       int            `json:"question_sum"`
	ExclamationSum    int            `json:"exclamation_sum"`
	EmojiSum          int            `json:"emoji_sum"`
	FormalitySum      float64        `json:"formality_sum"`
	ResponseTimeSum   float64        `json:"response_time_sum"`
	ResponseTimeCount int            `json:"response_time_count"`
	InitiatedCount    int            `json:"initiated_count"`
	KeywordCounts     map[string]int `json:"keyword_counts"`
	LowQualityCount   int            `json:"low_quality_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Absorb incorpora un FeatureRecord a la ventana. Solo acumula sumas.
func (w *AggregationWindow) Absorb(f FeatureRecord) {
	w.MessageCount++
	w.WordSum += f.WordCount
	w.CharSum += f.CharCount
	switch f.SentimentLabel {
	case SentimentPositive:
		w.PositiveCount++
	case SentimentNegative:
		w.NegativeCount++
	default:
		w.NeutralCount++
	}
	w.QuestionSum += f.QuestionCount
	w.ExclamationSum += f.ExclamationCount
	w.EmojiSum += f.EmojiCount
	w.FormalitySum += float64(f.FormalityScore)
	if f.ResponseTimeSeconds > 0 {
		w.ResponseTimeSum += f.ResponseTimeSeconds
		w.ResponseTimeCount++
	}
	if f.Initiated {
		w.InitiatedCount++
	}
	if f.LowQuality {
		w.LowQualityCount++
	}
	if len(f.KeywordCounts) > 0 {
		if w.KeywordCounts == nil {
			w.KeywordCounts = make(map[string]int, len(KeywordCategories))
		}
		for cat, n := range f.KeywordCounts {
			w.KeywordCounts[cat] += n
		}
	}
}

// Merge combina otra ventana dentro de esta (para rollups). Ambas deben
// pertenecer al mismo usuario/org/canal; el periodo resultante cubre ambos.
func (w *AggregationWindow) Merge(other AggregationWindow) {
	if w.PeriodStart.IsZero() || other.PeriodStart.Before(w.PeriodStart) {
		w.PeriodStart = other.PeriodStart
	}
	if other.PeriodEnd.After(w.PeriodEnd) {
		w.PeriodEnd = other.PeriodEnd
	}
	w.MessageCount += other.MessageCount
	w.WordSum += other.WordSum
	w.CharSum += other.CharSum
	w.PositiveCount += other.PositiveCount
	w.NeutralCount += other.NeutralCount
	w.NegativeCount += other.NegativeCount
	w.QuestionSum += other.QuestionSum
	w.ExclamationSum += other.ExclamationSum
	w.EmojiSum += other.EmojiSum
	w.FormalitySum += other.FormalitySum
	w.ResponseTimeSum += other.ResponseTimeSum
	w.ResponseTimeCount += other.ResponseTimeCount
	w.InitiatedCount += other.InitiatedCount
	w.LowQualityCount += other.LowQualityCount
	if len(other.KeywordCounts) > 0 {
		if w.KeywordCounts == nil {
			w.KeywordCounts = make(map[string]int, len(KeywordCategories))
		}
		for cat, n := range other.KeywordCounts {
			w.KeywordCounts[cat] += n
		}
	}
}

// SentimentPercentages deriva porcentajes pos/neu/neg que siempre suman 100
// para ventanas con mensajes. El redondeo residual se asigna al neutro.
func (w *AggregationWindow) SentimentPercentages() (pos, neu, neg int) {
	total := w.PositiveCount + w.NeutralCount + w.NegativeCount
	if total == 0 {
		return 0, 100, 0
	}
	pos = w.PositiveCount * 100 / total
	neg = w.NegativeCount * 100 / total
	neu = 100 - pos - neg
	return pos, neu, neg
}

// AvgFormality devuelve la formalidad promedio 0-100 de la ventana.
func (w *AggregationWindow) AvgFormality() float64 {
	if w.MessageCount == 0 {
		return 0
	}
	return w.FormalitySum / float64(w.MessageCount)
}

// AvgResponseTime devuelve la latencia promedio en segundos, 0 si no hay datos.
func (w *AggregationWindow) AvgResponseTime() float64 {
	if w.ResponseTimeCount == 0 {
		return 0
	}
	return w.ResponseTimeSum / float64(w.ResponseTimeCount)
}

// InitiationRate es la proporcion 0-1 de mensajes que inician conversacion.
func (w *AggregationWindow) InitiationRate() float64 {
	if w.MessageCount == 0 {
		return 0
	}
	return float64(w.InitiatedCount) / float64(w.MessageCount)
}

// QuestionRate es el promedio de preguntas por mensaje.
func (w *AggregationWindow) QuestionRate() float64 {
	if w.MessageCount == 0 {
		return 0
	}
	return float64(w.QuestionSum) / float64(w.MessageCount)
}

// KeywordRatio devuelve la fraccion 0-1 de hits de una categoria sobre el
// total de hits de keywords de la ventana.
func (w *AggregationWindow) KeywordRatio(category string) float64 {
	total := 0
	for _, n := range w.KeywordCounts {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(w.KeywordCounts[category]) / float64(total)
}
