package spatial

import (
	"math"
)

// CircularMeanDegrees calculates the mean of circular data in degrees
// weights: optional weights for each angle (can be nil for equal weights)
// Returns mean angle in [0, 360)
func CircularMeanDegrees(angles []float64, weights []float64) float64 {
	sumSin, sumCos, _ := resultant(angles, weights)
	if sumSin == 0 && sumCos == 0 {
		return 0
	}
	meanDeg := math.Atan2(sumSin, sumCos) * 180 / math.Pi
	if meanDeg < 0 {
		meanDeg += 360
	}
	return meanDeg
}

// MeanResultantLength calculates the mean resultant length (R) of angles in degrees
// R ranges from 0 (uniform distribution) to 1 (all angles identical)
func MeanResultantLength(angles []float64, weights []float64) float64 {
	sumSin, sumCos, sumWeights := resultant(angles, weights)
	if sumWeights == 0 {
		return 0
	}
	return math.Sqrt(sumSin*sumSin+sumCos*sumCos) / sumWeights
}

func resultant(angles []float64, weights []float64) (sumSin, sumCos, sumWeights float64) {
	for i, angle := range angles {
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		rad := angle * math.Pi / 180
		sumSin += w * math.Sin(rad)
		sumCos += w * math.Cos(rad)
		sumWeights += w
	}
	return sumSin, sumCos, sumWeights
}

// AngularDifferenceDegrees calculates the signed rotation from angle1 to angle2 (degrees)
// Result is in range (-180, 180]
func AngularDifferenceDegrees(angle1, angle2 float64) float64 {
	diff := math.Mod(angle2-angle1, 360)
	if diff > 180 {
		diff -= 360
	}
	if diff <= -180 {
		diff += 360
	}
	return diff
}

// NormalizeDegrees maps any angle into [0, 360)
func NormalizeDegrees(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	return a
}
