package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestStationarity_ConstantSignal(t *testing.T) {
	for _, n := range []int{16, 17, 100, 2000} {
		assert.True(t, Stationarity(constant(n, 0.25), 16), "n=%d", n)
	}
	assert.True(t, Stationarity(constant(4, 3), 4))
}

func TestStationarity_QuadraticGrowth(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i * i)
	}

	assert.False(t, Stationarity(data, 4))
}

func TestStationarity_TooFewSamples(t *testing.T) {
	assert.False(t, Stationarity(constant(15, 1), 16))
	assert.False(t, Stationarity(nil, 1))
	assert.False(t, Stationarity(constant(10, 1), 0))
}

func TestStationarity_RemainderFormsOwnChunk(t *testing.T) {
	// 11 samples in 3 segments: chunks of 3,3,3 and a trailing chunk of 2.
	// Only the trailing chunk has variance (1.0), which must not be dropped.
	data := append(constant(9, 0), 0, 2)

	assert.False(t, Stationarity(data, 3))
}

func TestStationarity_ThresholdIsStrict(t *testing.T) {
	// chunk variances [0, 0.25]: variance of variances = 0.015625
	data := []float64{1, 1, 0, 1}
	assert.True(t, Stationarity(data, 2))

	// chunk variances [0, 1]: variance of variances = 0.25
	data = []float64{1, 1, 0, 2}
	assert.False(t, Stationarity(data, 2))
}
