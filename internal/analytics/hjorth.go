package analytics

import (
	"math"

	"wisefido-sedentary/internal/models"
)

// SignalFeatures is re-exported for callers that only import analytics.
type SignalFeatures = models.SignalFeatures

// HjorthParameters computes mean, variance, stationarity (16 segments) and the Hjorth
// activity, mobility and complexity of data. Undefined ratios are reported as 0.
func HjorthParameters(data []float64) SignalFeatures {
	return Analyzer{Segments: DefaultSegments, VarianceThreshold: DefaultVarianceThreshold}.Features(data)
}

// Analyzer carries the stationarity knobs.
type Analyzer struct {
	Segments          int
	VarianceThreshold float64
}

// DefaultAnalyzer returns an analyzer with the fixed defaults.
func DefaultAnalyzer() Analyzer {
	return Analyzer{Segments: DefaultSegments, VarianceThreshold: DefaultVarianceThreshold}
}

// Features computes the signal features of data.
func (a Analyzer) Features(data []float64) SignalFeatures {
	if len(data) == 0 {
		return SignalFeatures{}
	}

	m := mean(data)
	activity := variance(data)

	d1 := diff(data)
	var1 := variance(d1)
	mobility := math.Sqrt(var1 / activity)

	d2 := diff(d1)
	var2 := variance(d2)
	complexity := math.Sqrt(var2/var1) / mobility

	return SignalFeatures{
		Mean:               m,
		Variance:           activity,
		StationarityPassed: stationarity(data, a.Segments, a.VarianceThreshold),
		HjorthActivity:     activity,
		HjorthMobility:     finiteOrZero(mobility),
		HjorthComplexity:   finiteOrZero(complexity),
	}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
