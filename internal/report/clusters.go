package report

import (
	"math"
	"slices"
)

// minClusterSamples is the smallest day worth clustering.
const minClusterSamples = 100

// ClusterCenters runs one-dimensional k-means and returns the sorted centers.
// Centers start at evenly spaced quantiles so the result is deterministic.
func ClusterCenters(values []float64, k, iterations int) []float64 {
	if k <= 0 || len(values) < k {
		return nil
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	centers := make([]float64, k)
	for i := range centers {
		idx := (2*i + 1) * len(sorted) / (2 * k)
		centers[i] = sorted[idx]
	}

	sums := make([]float64, k)
	counts := make([]int, k)
	for iter := 0; iter < iterations; iter++ {
		clear(sums)
		clear(counts)
		for _, v := range sorted {
			best := 0
			for c := 1; c < k; c++ {
				if math.Abs(v-centers[c]) < math.Abs(v-centers[best]) {
					best = c
				}
			}
			sums[best] += v
			counts[best]++
		}

		moved := false
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			next := sums[c] / float64(counts[c])
			if next != centers[c] {
				centers[c] = next
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	slices.Sort(centers)
	return centers
}

// SuggestFidgetThreshold returns the midpoint between the two lowest of three
// activity clusters, or false when the day has too few samples.
func SuggestFidgetThreshold(values []float64) (float64, []float64, bool) {
	if len(values) <= minClusterSamples {
		return 0, nil, false
	}
	centers := ClusterCenters(values, 3, 50)
	if len(centers) < 2 {
		return 0, nil, false
	}
	return (centers[0] + centers[1]) / 2, centers, true
}
