package suggest

import (
	"errors"
	"math"
)

var (
	errSeriesLength     = errors.New("series length mismatch or too short")
	errDegenerateSeries = errors.New("series has zero variance")
)

// pearson calcula el coeficiente de correlacion de Pearson entre dos series
// pareadas. Series degeneradas (varianza cero) o demasiado cortas devuelven
// error en vez de NaN.
func pearson(xs, ys []float64) (float64, error) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0, errSeriesLength
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, errDegenerateSeries
	}
	return cov / math.Sqrt(varX*varY), nil
}
