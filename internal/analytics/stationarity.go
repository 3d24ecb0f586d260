package analytics

const (
	// DefaultSegments is the segment count used by HjorthParameters.
	DefaultSegments = 16
	// DefaultVarianceThreshold bounds the variance of segment variances for a stationary signal.
	DefaultVarianceThreshold = 0.05
)

// Stationarity reports whether the variance of data is stable across segments.
// It fails when there are fewer samples than segments.
func Stationarity(data []float64, segments int) bool {
	return stationarity(data, segments, DefaultVarianceThreshold)
}

func stationarity(data []float64, segments int, threshold float64) bool {
	if segments <= 0 || len(data) < segments {
		return false
	}

	chunkSize := len(data) / segments
	variances := make([]float64, 0, segments+1)

	// the trailing remainder forms one extra, shorter chunk
	for start := 0; start < len(data); start += chunkSize {
		end := min(start+chunkSize, len(data))
		variances = append(variances, variance(data[start:end]))
	}

	return variance(variances) < threshold
}
