package analytics

// mean and variance are plain-sum population statistics. No compensated summation is
// applied; windows are bounded at a few thousand samples.

func mean(data []float64) float64 {
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func variance(data []float64) float64 {
	m := mean(data)
	var sum float64
	for _, v := range data {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(data))
}

func diff(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	out := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		out[i-1] = data[i] - data[i-1]
	}
	return out
}
