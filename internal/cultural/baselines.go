package cultural

import "team-pulse/internal/domain"

// baselines son las dimensiones de Hofstede por pais (ISO 3166-1 alpha-2),
// escala 0-100. Valores publicados; el orden es PDI, IDV, MAS, UAI, LTO, IVR.
var baselines = map[string]domain.CulturalDimensions{
	"US": {PowerDistance: 40, Individualism: 91, Masculinity: 62, UncertaintyAvoidance: 46, LongTermOrientation: 26, Indulgence: 68},
	"GB": {PowerDistance: 35, Individualism: 89, Masculinity: 66, UncertaintyAvoidance: 35, LongTermOrientation: 51, Indulgence: 69},
	"DE": {PowerDistance: 35, Individualism: 67, Masculinity: 66, UncertaintyAvoidance: 65, LongTermOrientation: 83, Indulgence: 40},
	"FR": {PowerDistance: 68, Individualism: 71, Masculinity: 43, UncertaintyAvoidance: 86, LongTermOrientation: 63, Indulgence: 48},
	"ES": {PowerDistance: 57, Individualism: 51, Masculinity: 42, UncertaintyAvoidance: 86, LongTermOrientation: 48, Indulgence: 44},
	"IT": {PowerDistance: 50, Individualism: 76, Masculinity: 70, UncertaintyAvoidance: 75, LongTermOrientation: 61, Indulgence: 30},
	"NL": {PowerDistance: 38, Individualism: 80, Masculinity: 14, UncertaintyAvoidance: 53, LongTermOrientation: 67, Indulgence: 68},
	"SE": {PowerDistance: 31, Individualism: 71, Masculinity: 5, UncertaintyAvoidance: 29, LongTermOrientation: 53, Indulgence: 78},
	"PL": {PowerDistance: 68, Individualism: 60, Masculinity: 64, UncertaintyAvoidance: 93, LongTermOrientation: 38, Indulgence: 29},
	"BR": {PowerDistance: 69, Individualism: 38, Masculinity: 49, UncertaintyAvoidance: 76, LongTermOrientation: 44, Indulgence: 59},
	"MX": {PowerDistance: 81, Individualism: 30, Masculinity: 69, UncertaintyAvoidance: 82, LongTermOrientation: 24, Indulgence: 97},
	"AR": {PowerDistance: 49, Individualism: 46, Masculinity: 56, UncertaintyAvoidance: 86, LongTermOrientation: 20, Indulgence: 62},
	"CO": {PowerDistance: 67, Individualism: 13, Masculinity: 64, UncertaintyAvoidance: 80, LongTermOrientation: 13, Indulgence: 83},
	"CL": {PowerDistance: 63, Individualism: 23, Masculinity: 28, UncertaintyAvoidance: 86, LongTermOrientation: 31, Indulgence: 68},
	"JP": {PowerDistance: 54, Individualism: 46, Masculinity: 95, UncertaintyAvoidance: 92, LongTermOrientation: 88, Indulgence: 42},
	"KR": {PowerDistance: 60, Individualism: 18, Masculinity: 39, UncertaintyAvoidance: 85, LongTermOrientation: 100, Indulgence: 29},
	"CN": {PowerDistance: 80, Individualism: 20, Masculinity: 66, UncertaintyAvoidance: 30, LongTermOrientation: 87, Indulgence: 24},
	"IN": {PowerDistance: 77, Individualism: 48, Masculinity: 56, UncertaintyAvoidance: 40, LongTermOrientation: 51, Indulgence: 26},
	"AU": {PowerDistance: 38, Individualism: 90, Masculinity: 61, UncertaintyAvoidance: 51, LongTermOrientation: 21, Indulgence: 71},
	"CA": {PowerDistance: 39, Individualism: 80, Masculinity: 52, UncertaintyAvoidance: 48, LongTermOrientation: 36, Indulgence: 68},
	"NG": {PowerDistance: 80, Individualism: 30, Masculinity: 60, UncertaintyAvoidance: 55, LongTermOrientation: 13, Indulgence: 84},
	"ZA": {PowerDistance: 49, Individualism: 65, Masculinity: 63, UncertaintyAvoidance: 49, LongTermOrientation: 34, Indulgence: 63},
}
