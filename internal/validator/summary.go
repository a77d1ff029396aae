package validator

import (
	"fmt"
	"sort"
	"strings"

	"team-pulse/internal/domain"
	"team-pulse/internal/fusion"
)

// BuildSummary arma el prompt de validacion a partir de agregados y del
// consenso tier-1. Nunca incluye contenido crudo de mensajes: la redaccion
// es estructural, no un filtro posterior.
func BuildSummary(windows []domain.AggregationWindow, consensus map[string]fusion.Consensus) string {
	var merged domain.AggregationWindow
	for _, w := range windows {
		merged.Merge(w)
	}
	pos, neu, neg := merged.SentimentPercentages()

	var b strings.Builder
	b.WriteString("Eres un psicologo organizacional. Valida el siguiente perfil conductual ")
	b.WriteString("derivado exclusivamente de metricas agregadas de comunicacion (sin texto original).\n\n")

	b.WriteString("Metricas agregadas del periodo analizado:\n")
	fmt.Fprintf(&b, "- mensajes: %d en %d ventanas\n", merged.MessageCount, len(windows))
	fmt.Fprintf(&b, "- sentimiento: %d%% positivo, %d%% neutral, %d%% negativo\n", pos, neu, neg)
	fmt.Fprintf(&b, "- formalidad promedio: %.1f/100\n", merged.AvgFormality())
	fmt.Fprintf(&b, "- tasa de iniciacion de conversaciones: %.2f\n", merged.InitiationRate())
	fmt.Fprintf(&b, "- tasa de preguntas: %.2f\n", merged.QuestionRate())
	if rt := merged.AvgResponseTime(); rt > 0 {
		fmt.Fprintf(&b, "- tiempo de respuesta promedio: %.0f segundos\n", rt)
	}

	if len(merged.KeywordCounts) > 0 {
		b.WriteString("- categorias lexicas dominantes:")
		categories := make([]string, 0, len(merged.KeywordCounts))
		for category := range merged.KeywordCounts {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Fprintf(&b, " %s=%d", category, merged.KeywordCounts[category])
		}
		b.WriteString("\n")
	}

	b.WriteString("\nPredicciones tier-1 a validar (puntaje 0-100, confianza 0-100):\n")
	traits := make([]string, 0, len(consensus))
	for trait := range consensus {
		traits = append(traits, trait)
	}
	sort.Strings(traits)
	for _, trait := range traits {
		c := consensus[trait]
		fmt.Fprintf(&b, "- %s: %d (confianza %d)\n", trait, c.Score, c.Confidence)
	}

	b.WriteString("\nResponde SOLO con un objeto JSON valido con esta forma exacta:\n")
	b.WriteString(`{"traits": {"FRAMEWORK.trait": 0}, "confidence": 0, "conflicts": ["FRAMEWORK.trait"]}`)
	b.WriteString("\nEn traits devuelve tu re-puntuacion de cada rasgo listado; en conflicts ")
	b.WriteString("los rasgos donde tu puntaje difiere en mas de 20 puntos del tier-1.\n")
	return b.String()
}
