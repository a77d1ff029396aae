package cultural

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"team-pulse/internal/domain"
)

// Engine calcula el contexto cultural de un perfil: baseline por pais,
// ajustes derivados del comportamiento observado y la mezcla entre ambos.
type Engine struct {
	defaultCountry       string
	fullConfidenceConvos int
	logger               *zap.Logger
}

func NewEngine(defaultCountry string, fullConfidenceConvos int, logger *zap.Logger) *Engine {
	if defaultCountry == "" {
		defaultCountry = "US"
	}
	if fullConfidenceConvos <= 0 {
		fullConfidenceConvos = 50
	}
	return &Engine{
		defaultCountry:       strings.ToUpper(defaultCountry),
		fullConfidenceConvos: fullConfidenceConvos,
		logger:               logger,
	}
}

// Baseline devuelve las dimensiones del pais, cayendo al pais por defecto
// cuando el codigo no esta en la tabla.
func (e *Engine) Baseline(countryCode string) domain.CulturalDimensions {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if dims, ok := baselines[code]; ok {
		return dims
	}
	if code != "" {
		e.logger.Debug("unknown country code, using default baseline",
			zap.String("country_code", code),
			zap.String("default", e.defaultCountry))
	}
	return baselines[e.defaultCountry]
}

// Adjustments deriva dimensiones desde el comportamiento agregado observado.
// Cada dimension se ancla en una senal conductual distinta; todas quedan
// acotadas a 0-100.
func (e *Engine) Adjustments(windows []domain.AggregationWindow) domain.CulturalDimensions {
	var merged domain.AggregationWindow
	for _, w := range windows {
		merged.Merge(w)
	}
	if merged.MessageCount == 0 {
		return domain.CulturalDimensions{}
	}

	pos, _, _ := merged.SentimentPercentages()

	return domain.CulturalDimensions{
		// Formalidad alta correlaciona con distancia al poder percibida.
		PowerDistance: clampDim(merged.AvgFormality()*0.8 + 10),
		// Quien inicia y empuja sus propios hilos opera individualista.
		Individualism: clampDim(merged.InitiationRate()*90 + 20),
		// Lexico de logro y competencia sobre lexico social.
		Masculinity: clampDim(merged.KeywordRatio(domain.KeywordAchievement)*150 + 25),
		// Preguntar antes de actuar y planificar evitan incertidumbre.
		UncertaintyAvoidance: clampDim(merged.QuestionRate()*80 + merged.KeywordRatio(domain.KeywordPlanning)*100),
		LongTermOrientation:  clampDim(merged.KeywordRatio(domain.KeywordPlanning)*180 + 15),
		Indulgence:           clampDim(float64(pos)*0.9 + 10),
	}
}

// Confidence crece linealmente con las conversaciones analizadas y satura en
// 100 al alcanzar el piso configurado.
func (e *Engine) Confidence(conversations int) int {
	if conversations <= 0 {
		return 0
	}
	c := int(math.Round(float64(conversations) / float64(e.fullConfidenceConvos) * 100))
	if c > 100 {
		return 100
	}
	return c
}

// Blend interpola baseline y ajustes segun la confianza: con 0 devuelve el
// baseline exacto, con 100 el ajuste exacto.
func (e *Engine) Blend(baseline, adjusted domain.CulturalDimensions, confidence int) domain.CulturalDimensions {
	c := float64(domain.ClampScore(confidence)) / 100
	return domain.CulturalDimensions{
		PowerDistance:        blendDim(baseline.PowerDistance, adjusted.PowerDistance, c),
		Individualism:        blendDim(baseline.Individualism, adjusted.Individualism, c),
		Masculinity:          blendDim(baseline.Masculinity, adjusted.Masculinity, c),
		UncertaintyAvoidance: blendDim(baseline.UncertaintyAvoidance, adjusted.UncertaintyAvoidance, c),
		LongTermOrientation:  blendDim(baseline.LongTermOrientation, adjusted.LongTermOrientation, c),
		Indulgence:           blendDim(baseline.Indulgence, adjusted.Indulgence, c),
	}
}

// Profile construye el estado cultural completo de un perfil.
func (e *Engine) Profile(profileID, countryCode string, windows []domain.AggregationWindow) domain.CulturalProfile {
	baseline := e.Baseline(countryCode)
	adjusted := e.Adjustments(windows)

	conversations := 0
	for _, w := range windows {
		conversations += w.MessageCount
	}
	confidence := e.Confidence(conversations)

	return domain.CulturalProfile{
		ProfileID:             profileID,
		CountryCode:           strings.ToUpper(strings.TrimSpace(countryCode)),
		Baseline:              baseline,
		Adjusted:              adjusted,
		Blended:               e.Blend(baseline, adjusted, confidence),
		Confidence:            confidence,
		ConversationsAnalyzed: conversations,
	}
}

func blendDim(base, adj, c float64) float64 {
	return base*(1-c) + adj*c
}

func clampDim(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
