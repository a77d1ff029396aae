package domain

import "time"

// Tipos de canal de comunicacion soportados por el feed de interacciones.
const (
	ChannelChat     = "chat"
	ChannelEmail    = "email"
	ChannelMeeting  = "meeting"
	ChannelDocument = "document"
)

// Etiquetas de sentimiento producidas por el extractor.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Categorias fijas de keywords. El extractor solo cuenta ocurrencias por
// categoria; nunca guarda las palabras en si.
const (
	KeywordAchievement     = "achievement"
	KeywordSocial          = "social"
	KeywordCognitive       = "cognitive"
	KeywordPlanning        = "planning"
	KeywordPositiveEmotion = "positive_emotion"
	KeywordNegativeEmotion = "negative_emotion"
)

// KeywordCategories lista las categorias en orden estable.
var KeywordCategories = []string{
	KeywordAchievement,
	KeywordSocial,
	KeywordCognitive,
	KeywordPlanning,
	KeywordPositiveEmotion,
	KeywordNegativeEmotion,
}

// InteractionEvent es un evento efimero: el contenido se lee una sola vez en
// el extractor y se descarta. Ningun campo de este struct se persiste.
type InteractionEvent struct {
	UserID              string    `json:"user_id"`
	OrganizationID      string    `json:"organization_id"`
	ChannelType         string    `json:"channel_type"`
	Content             string    `json:"content"`
	Timestamp           time.Time `json:"timestamp"`
	ResponseTimeSeconds float64   `json:"response_time_seconds"`
	ThreadStart         bool      `json:"thread_start"`
}

// FeatureRecord es la salida acotada del extractor. No contiene texto libre
// del mensaje original, solo medidas numericas y categoricas.
type FeatureRecord struct {
	CharCount           int            `json:"char_count"`
	WordCount           int            `json:"word_count"`
	SentimentLabel      string         `json:"sentiment_label"`
	SentimentScore      float64        `json:"sentiment_score"`
	QuestionCount       int            `json:"question_count"`
	ExclamationCount    int            `json:"exclamation_count"`
	EmojiCount          int            `json:"emoji_count"`
	FormalityScore      int            `json:"formality_score"`
	ResponseTimeSeconds float64        `json:"response_time_seconds"`
	KeywordCounts       map[string]int `json:"keyword_counts"`
	Initiated           bool           `json:"initiated"`
	LowQuality          bool           `json:"low_quality"`
}
