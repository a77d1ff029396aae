package domain

import "time"

// CulturalDimensions agrupa las seis dimensiones de Hofstede en escala 0-100.
type CulturalDimensions struct {
	PowerDistance        float64 `json:"power_distance"`
	Individualism        float64 `json:"individualism"`
	Masculinity          float64 `json:"masculinity"`
	UncertaintyAvoidance float64 `json:"uncertainty_avoidance"`
	LongTermOrientation  float64 `json:"long_term_orientation"`
	Indulgence           float64 `json:"indulgence"`
}

// Vector serializa las dimensiones en orden fijo para almacenarlas como vector(6).
func (d CulturalDimensions) Vector() []float32 {
	return []float32{
		float32(d.PowerDistance),
		float32(d.Individualism),
		float32(d.Masculinity),
		float32(d.UncertaintyAvoidance),
		float32(d.LongTermOrientation),
		float32(d.Indulgence),
	}
}

// DimensionsFromVector reconstruye las dimensiones desde un vector(6).
func DimensionsFromVector(v []float32) CulturalDimensions {
	if len(v) != 6 {
		return CulturalDimensions{}
	}
	return CulturalDimensions{
		PowerDistance:        float64(v[0]),
		Individualism:        float64(v[1]),
		Masculinity:          float64(v[2]),
		UncertaintyAvoidance: float64(v[3]),
		LongTermOrientation:  float64(v[4]),
		Indulgence:           float64(v[5]),
	}
}

// CulturalProfile es el estado cultural de un perfil. El baseline por pais es
// inmutable; los ajustes conductuales mutan a medida que llegan mas datos.
type CulturalProfile struct {
	ID                    string             `json:"id"`
	ProfileID             string             `json:"profile_id"`
	CountryCode           string             `json:"country_code"`
	Baseline              CulturalDimensions `json:"baseline"`
	Adjusted              CulturalDimensions `json:"adjusted"`
	Blended               CulturalDimensions `json:"blended"`
	Confidence            int                `json:"confidence"`
	ConversationsAnalyzed int                `json:"conversations_analyzed"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}
