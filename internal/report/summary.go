// Package report builds the daily activity summary from stored events.
package report

import (
	"math"
	"time"

	"wisefido-sedentary/internal/models"
	"wisefido-sedentary/internal/tracker"
)

// DefaultSamplesPerMinute is the device frame rate (10 Hz) expressed per minute.
const DefaultSamplesPerMinute = 600

// Summarize buckets smoothed magnitudes into sedentary and active minutes for date.
// Fidget samples count as active.
func Summarize(date time.Time, values []float64, th tracker.Thresholds, samplesPerMinute int) models.ActivitySummary {
	if samplesPerMinute <= 0 {
		samplesPerMinute = DefaultSamplesPerMinute
	}

	var active, fidget, sedentary int
	for _, v := range values {
		switch {
		case v > th.Active:
			active++
		case v > th.Fidget:
			fidget++
		default:
			sedentary++
		}
	}

	perMinute := float64(samplesPerMinute)
	sedentaryMins := round2(float64(sedentary) / perMinute)
	activeMins := round2(float64(active+fidget) / perMinute)

	score := 0
	if total := sedentaryMins + activeMins; total > 0 {
		score = int(activeMins / total * 100)
	}

	dominant := models.StateSedentary
	if activeMins > sedentaryMins {
		dominant = models.StateActive
	}

	y, m, d := date.Date()
	return models.ActivitySummary{
		Date:             time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		SedentaryMinutes: sedentaryMins,
		ActiveMinutes:    activeMins,
		DominantState:    dominant,
		ActivityScore:    score,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
