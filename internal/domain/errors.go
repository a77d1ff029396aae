package domain

import "errors"

// Errores sentinela del motor.
var (
	// ErrConsentMissing bloquea cualquier analisis o lectura: fail-closed.
	ErrConsentMissing = errors.New("consent required")
	// ErrInsufficientData indica menos agregados que el minimo para analizar.
	ErrInsufficientData = errors.New("insufficient aggregated data")
	// ErrValidationProvider indica que el proveedor tier-2 fallo o expiro.
	ErrValidationProvider = errors.New("validation provider unavailable")
)

// ExtractionError indica identificadores obligatorios faltantes en un evento.
// Problemas de contenido nunca producen este error: el extractor degrada a un
// registro low_quality.
type ExtractionError struct {
	Field string
}

func (e *ExtractionError) Error() string {
	return "extraction: missing required field " + e.Field
}

// CorrelationComputeError marca una metrica excluida del ranking por cohort
// chico o serie degenerada. Nunca tumba la pasada completa de sugerencias.
type CorrelationComputeError struct {
	MetricName string
	Reason     string
}

func (e *CorrelationComputeError) Error() string {
	return "correlation for metric " + e.MetricName + ": " + e.Reason
}
